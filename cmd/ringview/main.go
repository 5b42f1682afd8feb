// Command ringview draws a remote ring race in the terminal and forwards key presses to it.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/lguibr/ringrace/console"
	"github.com/lguibr/ringrace/log"
	"github.com/lguibr/ringrace/strip"
	"github.com/lguibr/ringrace/utils"
	"golang.org/x/net/websocket"
)

var buttonNames = map[utils.Pin]string{
	utils.PinGame:    "game",
	utils.PinPlayer1: "player1",
	utils.PinPlayer2: "player2",
}

// remotePresser presses buttons through the server's /press endpoint.
type remotePresser struct {
	base   string
	client *http.Client
}

func (p *remotePresser) Press(pin utils.Pin, hold time.Duration) error {
	name, ok := buttonNames[pin]
	if !ok {
		return fmt.Errorf("no remote button on pin %d", pin)
	}
	body, err := json.Marshal(map[string]int64{"holdMs": hold.Milliseconds()})
	if err != nil {
		return err
	}
	resp, err := p.client.Post(p.base+"/press/"+name, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("press %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("press %s: %s", name, resp.Status)
	}
	return nil
}

func main() {
	addr := flag.String("addr", "localhost:3001", "ring race server address")
	flag.Parse()

	websocketConnection, err := websocket.Dial("ws://"+*addr+"/subscribe", "", "http://localhost/")
	if err != nil {
		fmt.Println("Error connecting to server:", err)
		os.Exit(1)
	}
	defer websocketConnection.Close()

	log.SetOutput(os.Stderr)
	terminal := strip.NewTerminal(os.Stdout, true)
	go func() {
		for {
			var frame strip.Frame
			if err := websocket.JSON.Receive(websocketConnection, &frame); err != nil {
				fmt.Println("Error reading from server:", err)
				return
			}
			_ = terminal.Show(frame)
			fmt.Print(console.Help, "\r\n")
		}
	}()

	restore, err := console.EnableRawMode(os.Stdin.Fd())
	if err != nil {
		fmt.Println("Error setting raw mode:", err)
		return
	}
	defer restore()

	interruptSignalChannel := make(chan os.Signal, 1)
	signal.Notify(interruptSignalChannel, os.Interrupt)
	go func() {
		<-interruptSignalChannel
		_ = restore()
		os.Exit(0)
	}()

	presser := &remotePresser{base: "http://" + *addr, client: &http.Client{Timeout: 2 * time.Second}}
	kb := console.NewKeyboard(os.Stdin, presser, console.DefaultBindings(utils.DefaultConfig()))
	if err := kb.Run(context.Background()); err != nil && !errors.Is(err, console.ErrQuit) {
		fmt.Println("Error reading keys:", err)
	}
}
