package policies

import (
	"encoding/json"
	"math"
	"os"
)

// QTable maps state fingerprint and action to a value
type QTable struct {
	table map[string]map[string]float64
}

func NewQTable() *QTable {
	return &QTable{
		table: make(map[string]map[string]float64),
	}
}

// Get returns the value, storing def for an unknown entry
func (q *QTable) Get(state, action string, def float64) float64 {
	if _, ok := q.table[state]; !ok {
		q.table[state] = make(map[string]float64)
	}
	if _, ok := q.table[state][action]; !ok {
		q.table[state][action] = def
	}
	return q.table[state][action]
}

func (q *QTable) Set(state, action string, val float64) {
	if _, ok := q.table[state]; !ok {
		q.table[state] = make(map[string]float64)
	}
	q.table[state][action] = val
}

func (q *QTable) HasState(state string) bool {
	_, ok := q.table[state]
	return ok
}

func (q *QTable) Len() int {
	return len(q.table)
}

// Max returns the best known action of state, def when the state is unknown
func (q *QTable) Max(state string, def float64) (string, float64) {
	if _, ok := q.table[state]; !ok {
		return "", def
	}
	maxAction := ""
	maxVal := math.Inf(-1)
	for a, val := range q.table[state] {
		if val > maxVal || (val == maxVal && a < maxAction) {
			maxAction = a
			maxVal = val
		}
	}
	if maxAction == "" {
		return "", def
	}
	return maxAction, maxVal
}

// MaxAmong returns the index of the best of actions, the first on ties
func (q *QTable) MaxAmong(state string, actions []string, def float64) (int, float64) {
	maxIndex := -1
	maxVal := math.Inf(-1)
	for i, a := range actions {
		val := q.Get(state, a, def)
		if val > maxVal {
			maxIndex = i
			maxVal = val
		}
	}
	return maxIndex, maxVal
}

// Record writes the table as JSON
func (q *QTable) Record(path string) error {
	bs, err := json.Marshal(q.table)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bs, 0644)
}
