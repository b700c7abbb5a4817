package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case []Room:
		o.printRoomList(v)
	case RoomMembers:
		o.printRoomMembers(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	PlayerName  string `json:"playerName"`
	PlayerIdent string `json:"playerIdent"`
}

// Room response type
type Room struct {
	ID         string   `json:"id"`
	RoomName   string   `json:"roomName"`
	HostID     string   `json:"hostId"`
	MaxPlayers int      `json:"maxPlayers"`
	Clients    []string `json:"clients"`
	Host       *Player  `json:"host,omitempty"`
	Players    []Player `json:"players,omitempty"`
}

// RoomMembers response type
type RoomMembers struct {
	RoomID  string   `json:"roomId"`
	Clients []string `json:"clients"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s (%s)\n", r.RoomName, r.ID)
	fmt.Printf("Capacity: %d/%d\n", len(r.Clients), r.MaxPlayers)
	if r.Host != nil {
		fmt.Printf("Host: %s (%s)\n", r.Host.PlayerName, r.Host.ID)
	} else {
		fmt.Printf("Host: %s\n", r.HostID)
	}
	fmt.Printf("Members (%d):\n", len(r.Clients))
	for _, c := range r.Clients {
		name := c
		for _, p := range r.Players {
			if p.ID == c {
				name = fmt.Sprintf("%s (%s)", p.PlayerName, p.ID)
				break
			}
		}
		fmt.Printf("  - %s\n", name)
	}
}

func (o *Output) printRoomList(rooms []Room) {
	if len(rooms) == 0 {
		fmt.Println("No rooms")
		return
	}
	for i, r := range rooms {
		if i > 0 {
			fmt.Println()
		}
		o.printRoom(r)
	}
}

func (o *Output) printRoomMembers(m RoomMembers) {
	fmt.Printf("Room: %s\n", m.RoomID)
	fmt.Printf("Members (%d):\n", len(m.Clients))
	for _, c := range m.Clients {
		fmt.Printf("  - %s\n", c)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
