package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"chat-relay/internal/domain"
)

// Client manages the WebSocket connection of the terminal client.
type Client struct {
	Conn *websocket.Conn
	Send chan domain.WebSocketMessage
}

// NewClient creates a new network client.
func NewClient() *Client {
	return &Client{
		Send: make(chan domain.WebSocketMessage, 256),
	}
}

// Connect dials the server and starts the read/write goroutines. The token
// is passed as a query parameter and resolved server-side.
func (c *Client) Connect(serverURL, token string) error {
	u, err := url.Parse(serverURL)
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return err
	}
	c.Conn = conn

	go c.readPump()
	go c.writePump()

	return nil
}

func (c *Client) readPump() {
	defer c.Conn.Close()
	for {
		var msg domain.WebSocketMessage
		if err := c.Conn.ReadJSON(&msg); err != nil {
			log.Printf("Connection closed: %v", err)
			os.Exit(0)
			return
		}
		c.printServerMessage(msg)
	}
}

// writePump serializes all writes through one goroutine.
func (c *Client) writePump() {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteJSON(msg); err != nil {
			log.Printf("Write error: %v", err)
			return
		}
	}
}

// HandleStdin reads terminal input and turns slash commands into events.
func (c *Client) HandleStdin() {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Commands: /msg <user> <text>, /group <group> <text>, /join <group>, /leave <group>, /typing <user|#group> <on|off>")
	fmt.Print("> ")

	for {
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if input == "" {
			fmt.Print("> ")
			continue
		}

		if err := c.dispatch(input); err != nil {
			fmt.Printf("\r[ERROR] %v\n", err)
		}
		fmt.Print("> ")
	}
}

func (c *Client) dispatch(input string) error {
	switch {
	case strings.HasPrefix(input, "/msg "):
		parts := strings.SplitN(input, " ", 3)
		if len(parts) < 3 {
			return fmt.Errorf("usage: /msg <user> <text>")
		}
		c.Send <- domain.WebSocketMessage{
			Type:    domain.EventSendMessage,
			Payload: domain.SendMessagePayload{ReceiverID: parts[1], Content: parts[2]},
		}
		fmt.Printf("[%s] [Me -> %s]: %s\n", time.Now().Format("15:04:05"), parts[1], parts[2])

	case strings.HasPrefix(input, "/group "):
		parts := strings.SplitN(input, " ", 3)
		if len(parts) < 3 {
			return fmt.Errorf("usage: /group <group> <text>")
		}
		c.Send <- domain.WebSocketMessage{
			Type:    domain.EventSendMessage,
			Payload: domain.SendMessagePayload{GroupID: parts[1], Content: parts[2]},
		}

	case strings.HasPrefix(input, "/join "):
		c.Send <- domain.WebSocketMessage{
			Type:    domain.EventJoinGroup,
			Payload: domain.GroupPayload{GroupID: strings.TrimSpace(strings.TrimPrefix(input, "/join "))},
		}

	case strings.HasPrefix(input, "/leave "):
		c.Send <- domain.WebSocketMessage{
			Type:    domain.EventLeaveGroup,
			Payload: domain.GroupPayload{GroupID: strings.TrimSpace(strings.TrimPrefix(input, "/leave "))},
		}

	case strings.HasPrefix(input, "/typing "):
		parts := strings.Fields(input)
		if len(parts) != 3 || (parts[2] != "on" && parts[2] != "off") {
			return fmt.Errorf("usage: /typing <user|#group> <on|off>")
		}
		eventType := domain.EventTypingStart
		if parts[2] == "off" {
			eventType = domain.EventTypingStop
		}
		payload := domain.TypingPayload{}
		if strings.HasPrefix(parts[1], "#") {
			payload.GroupID = strings.TrimPrefix(parts[1], "#")
		} else {
			payload.ReceiverID = parts[1]
		}
		c.Send <- domain.WebSocketMessage{Type: eventType, Payload: payload}

	default:
		return fmt.Errorf("unknown command: %s", strings.Fields(input)[0])
	}
	return nil
}

// printServerMessage pretty-prints one server event above the prompt.
func (c *Client) printServerMessage(msg domain.WebSocketMessage) {
	timestamp := time.Now().Format("15:04:05")
	var output string

	switch msg.Type {
	case domain.EventNewMessage:
		var m domain.StoredMessage
		if err := remarshal(msg.Payload, &m); err != nil {
			output = fmt.Sprintf("[%s] [UNKNOWN]: %v", timestamp, msg)
			break
		}
		if m.GroupID != "" {
			output = fmt.Sprintf("[%s] [#%s] %s: %s", timestamp, m.GroupID, m.SenderID, m.Content)
		} else {
			output = fmt.Sprintf("[%s] [DM from %s]: %s", timestamp, m.SenderID, m.Content)
		}

	case domain.EventOnlineUsers:
		var online []string
		if err := remarshal(msg.Payload, &online); err == nil {
			output = fmt.Sprintf("[%s] [ONLINE]: %s", timestamp, strings.Join(online, ", "))
		}

	case domain.EventUserTyping:
		var t domain.UserTypingPayload
		if err := remarshal(msg.Payload, &t); err == nil {
			state := "stopped typing"
			if t.IsTyping {
				state = "is typing..."
			}
			output = fmt.Sprintf("[%s] [%s %s]", timestamp, t.UserID, state)
		}

	case domain.EventAck:
		var ack domain.AckPayload
		if err := remarshal(msg.Payload, &ack); err == nil && ack.Status == domain.StatusError {
			output = fmt.Sprintf("[%s] [SERVER ERROR] %s: %s", timestamp, ack.Event, ack.Message)
		} else {
			return // successful acks stay quiet
		}

	default:
		output = fmt.Sprintf("[%s] [UNKNOWN]: %v", timestamp, msg)
	}

	if output != "" {
		fmt.Printf("\r%s\n> ", output)
	}
}

func remarshal(payload interface{}, result interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, result)
}
