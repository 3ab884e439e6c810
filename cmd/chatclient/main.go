package main

import (
	"bufio"
	"bytes"
	"chat-gateway/domain/event"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
)

type frame struct {
	Event event.Name      `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}
	if !cfg.Colours {
		color.Disable()
	}
	if err := run(cfg); err != nil {
		color.Error.Println(err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	token := cfg.Token
	if token == "" {
		var err error
		if token, err = login(cfg); err != nil {
			return err
		}
	}

	wsURL, err := url.Parse(cfg.GatewayURL)
	if err != nil {
		return fmt.Errorf("invalid GATEWAY_URL: %w", err)
	}
	wsURL.Scheme = strings.Replace(wsURL.Scheme, "http", "ws", 1)
	wsURL.Path = "/chat"
	wsURL.RawQuery = url.Values{"token": []string{token}}.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, resp, err := dialer.Dial(wsURL.String(), nil)
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL.Redacted(), err)
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var f frame
			if err := conn.ReadJSON(&f); err != nil {
				color.Warn.Println("connection closed:", err)
				return
			}
			render(f)
		}
	}()

	color.Info.Println(usage)
	current := ""
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-done:
			return nil
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == "/quit" {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}
			cmd, err := parseLine(line, &current)
			if err != nil {
				color.Warn.Println(err)
				continue
			}
			if cmd == nil {
				continue
			}
			if err := conn.WriteJSON(cmd); err != nil {
				return fmt.Errorf("send: %w", err)
			}
		}
	}
}

func login(cfg Config) (string, error) {
	if cfg.Email == "" || cfg.Password == "" {
		return "", fmt.Errorf("set TOKEN, or EMAIL and PASSWORD")
	}
	body, err := json.Marshal(map[string]string{"email": cfg.Email, "password": cfg.Password})
	if err != nil {
		return "", err
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(strings.TrimRight(cfg.GatewayURL, "/")+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		AccessToken string `json:"access_token"`
		Message     string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("login response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login refused: %s", payload.Message)
	}
	return payload.AccessToken, nil
}

func render(f frame) {
	switch f.Event {
	case event.MessageNew:
		var msg event.MessagePayload
		if json.Unmarshal(f.Data, &msg) == nil {
			fmt.Printf("%s %s: %s\n",
				color.New(color.FgGray).Render(msg.CreatedAt.Local().Format("15:04:05")),
				color.New(color.FgCyan, color.OpBold).Render(msg.Sender.Name),
				msg.Content)
			return
		}
	case event.Error, event.RoomJoinError, event.RoomCreateError, event.MessageSendError:
		var reason string
		_ = json.Unmarshal(f.Data, &reason)
		color.Error.Printf("%s: %s\n", f.Event, reason)
		return
	}
	color.New(color.BgBlack, color.FgGreen).Printf("%s", f.Event)
	fmt.Printf(" %s\n", string(f.Data))
}
