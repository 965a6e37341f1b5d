package episode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Parent is an object type co-located with a target, with the base reward for spotting it
type Parent struct {
	Type   string
	Reward float64
}

// Parents keeps the order of the table file so that reward ties resolve deterministically
type Parents []Parent

// UnmarshalJSON decodes a {"type": reward, ...} object preserving key order
func (p *Parents) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("parents: expected object, got %v", tok)
	}
	out := make(Parents, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("parents: expected key, got %v", tok)
		}
		var reward float64
		if err := dec.Decode(&reward); err != nil {
			return fmt.Errorf("parents: reward of %s: %w", key, err)
		}
		out = append(out, Parent{Type: key, Reward: reward})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

// ParentTable maps room -> target object type -> parent rewards
type ParentTable struct {
	rooms map[string]map[string]Parents
}

func NewParentTable(rooms map[string]map[string]Parents) *ParentTable {
	if rooms == nil {
		rooms = make(map[string]map[string]Parents)
	}
	return &ParentTable{rooms: rooms}
}

func ParseParentTable(r io.Reader) (*ParentTable, error) {
	rooms := make(map[string]map[string]Parents)
	if err := json.NewDecoder(r).Decode(&rooms); err != nil {
		return nil, fmt.Errorf("decoding parent table: %w", err)
	}
	return NewParentTable(rooms), nil
}

func LoadParentTable(path string) (*ParentTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseParentTable(f)
}

// Lookup returns the parent rewards of child in room
// ok is false when the room or the child is not in the table
func (t *ParentTable) Lookup(room, child string) (Parents, bool) {
	if t == nil {
		return nil, false
	}
	children, ok := t.rooms[room]
	if !ok {
		return nil, false
	}
	parents, ok := children[child]
	return parents, ok
}
