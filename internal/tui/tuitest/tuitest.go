// ABOUTME: Test helpers that drive bubbletea models without a terminal
// ABOUTME: Pumps command output back into a model until a wanted message shows up

package tuitest

import (
	"reflect"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Wait bounds how long a single command may run. Timers such as cursor
// blinks outlive it and are dropped.
var Wait = 50 * time.Millisecond

const maxSteps = 200

var cmdType = reflect.TypeOf(tea.Cmd(nil))

// Pump runs cmd and feeds every message it yields back into m until match
// returns true. It returns the matched message, or false when the model
// runs out of work first.
func Pump(m tea.Model, cmd tea.Cmd, match func(tea.Msg) bool) (tea.Msg, bool) {
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < maxSteps; steps++ {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg := run(next)
		if msg == nil {
			continue
		}
		if match(msg) {
			return msg, true
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if seq := sequence(msg); seq != nil {
			queue = append(queue, seq...)
			continue
		}

		var out tea.Cmd
		m, out = m.Update(msg)
		queue = append(queue, out)
	}
	return nil, false
}

// Send delivers msg to m and pumps the resulting command
func Send(m tea.Model, msg tea.Msg, match func(tea.Msg) bool) (tea.Msg, bool) {
	m, cmd := m.Update(msg)
	return Pump(m, cmd, match)
}

// Is returns a matcher for messages of type T
func Is[T tea.Msg]() func(tea.Msg) bool {
	return func(msg tea.Msg) bool {
		_, ok := msg.(T)
		return ok
	}
}

// Keys builds key messages for typing s
func Keys(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

func run(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(Wait):
		return nil
	}
}

// sequence unpacks tea.Sequence output, whose message type is unexported
func sequence(msg tea.Msg) []tea.Cmd {
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice || v.Type().Elem() != cmdType {
		return nil
	}
	cmds := make([]tea.Cmd, v.Len())
	for i := range cmds {
		cmds[i], _ = v.Index(i).Interface().(tea.Cmd)
	}
	return cmds
}

// Drain delivers msg to m and runs everything it triggers
func Drain(m tea.Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		Send(m, msg, func(tea.Msg) bool { return false })
	}
}
