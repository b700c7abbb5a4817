package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/playsquare/lobbyd/internal/protocol"
)

func newConnectCmd() *cobra.Command {
	var (
		playerName  string
		playerIdent string
		joinRoom    string
	)

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Open an interactive lobby session",
		Long: `Connect to the lobby websocket endpoint and start an interactive session.

Lines you type are sent as messages to the current room. Lines starting
with "/" are commands:

  /create <id> [name] [max]   Create a room and make it current
  /join <id>                  Join a room and make it current
  /rooms                      List rooms
  /members <id>               List a room's members
  /quit                       Disconnect

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(playerName, playerIdent, joinRoom)
		},
	}

	cmd.Flags().StringVar(&playerName, "name", "", "Player name to register on connect")
	cmd.Flags().StringVar(&playerIdent, "ident", "", "Player ident to register on connect")
	cmd.Flags().StringVar(&joinRoom, "join", "", "Room ID to join on connect")

	return cmd
}

func runSession(playerName, playerIdent, joinRoom string) error {
	url := wsURL(cfg.ServerURL) + "/ws"

	sock, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	if resp != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = sock.Close() }()

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		_ = sock.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = sock.Close()
	}()

	// Print everything the server pushes
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := sock.ReadMessage()
			if err != nil {
				return
			}
			printFrame(data)
		}
	}()

	send := func(event string, payload any) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		return sock.WriteJSON(protocol.ClientMessage{Event: event, Data: data})
	}

	if playerName != "" {
		if err := send(protocol.EventRegisterPlayer, map[string]string{
			"playerName":  playerName,
			"playerIdent": playerIdent,
		}); err != nil {
			return err
		}
	}

	currentRoom := joinRoom
	if joinRoom != "" {
		if err := send(protocol.EventJoinRoom, map[string]string{"id": joinRoom}); err != nil {
			return err
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-done:
			return nil
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			fields := strings.Fields(line)
			switch fields[0] {
			case "/quit":
				return nil
			case "/rooms":
				err = send(protocol.EventListRooms, struct{}{})
			case "/members":
				if len(fields) < 2 {
					fmt.Println("usage: /members <id>")
					continue
				}
				err = send(protocol.EventRoomMembers, map[string]string{"roomId": fields[1]})
			case "/create":
				if len(fields) < 2 {
					fmt.Println("usage: /create <id> [name] [max]")
					continue
				}
				req := map[string]any{"id": fields[1]}
				if len(fields) > 2 {
					req["roomName"] = fields[2]
				}
				if len(fields) > 3 {
					var max int
					if _, scanErr := fmt.Sscanf(fields[3], "%d", &max); scanErr == nil {
						req["maxPlayers"] = max
					}
				}
				if err = send(protocol.EventCreateRoom, req); err == nil {
					currentRoom = fields[1]
				}
			case "/join":
				if len(fields) < 2 {
					fmt.Println("usage: /join <id>")
					continue
				}
				if err = send(protocol.EventJoinRoom, map[string]string{"id": fields[1]}); err == nil {
					currentRoom = fields[1]
				}
			default:
				fmt.Printf("unknown command: %s\n", fields[0])
				continue
			}
		} else {
			if currentRoom == "" {
				fmt.Println("not in a room; /join or /create one first")
				continue
			}
			err = send(protocol.EventRoomMessage, map[string]any{
				"roomId":  currentRoom,
				"message": line,
			})
		}

		if err != nil {
			<-done
			fmt.Println("Disconnected")
			return nil
		}
	}

	return scanner.Err()
}

// printFrame renders a server frame as a single line
func printFrame(data []byte) {
	var env struct {
		Status  string          `json:"status"`
		Event   string          `json:"event"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
		fmt.Printf("<- %s\n", string(data))
		return
	}

	if env.Status != "" {
		fmt.Printf("<- %s [%s]: %s\n", env.Event, env.Status, env.Message)
		return
	}

	if len(env.Data) > 0 {
		fmt.Printf("<- %s: %s\n", env.Event, string(env.Data))
	} else {
		fmt.Printf("<- %s\n", env.Event)
	}
}

// wsURL converts an http(s) base URL to its ws(s) equivalent
func wsURL(base string) string {
	base = strings.TrimSuffix(base, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
