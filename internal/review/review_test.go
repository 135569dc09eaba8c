package review

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/coverletter/internal/model"
)

var acme = model.SummaryFields{
	CompanyName: "Acme Corp",
	PostTitle:   "Software Engineer",
	Reason:      "Great mission fit",
}

func press(m reviewModel, keys ...tea.KeyMsg) reviewModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(reviewModel)
	}
	return m
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestReview_AcceptUnchanged(t *testing.T) {
	m := press(newReviewModel(acme), keyCtrlS)

	if !m.accepted {
		t.Fatal("expected accepted")
	}
	if m.fields() != acme {
		t.Errorf("fields = %+v, want %+v", m.fields(), acme)
	}
}

func TestReview_EnterWalksFieldsThenAccepts(t *testing.T) {
	m := press(newReviewModel(acme), keyEnter)
	if m.focus != 1 || m.accepted {
		t.Fatalf("after one enter: focus=%d accepted=%v", m.focus, m.accepted)
	}

	m = press(m, keyEnter, keyEnter)
	if !m.accepted {
		t.Error("expected accepted after enter on last field")
	}
}

func TestReview_EditReason(t *testing.T) {
	m := press(newReviewModel(acme), keyTab, keyTab, runes("!"), keyCtrlS)

	if !m.accepted {
		t.Fatal("expected accepted")
	}
	if got := m.fields().Reason; got != "Great mission fit!" {
		t.Errorf("Reason = %q", got)
	}
}

func TestReview_EmptyFieldBlocksAccept(t *testing.T) {
	m := newReviewModel(model.SummaryFields{CompanyName: "X", PostTitle: "Y", Reason: "Z"})
	m = press(m, keyTab, keyBack, keyCtrlS)

	if m.accepted {
		t.Fatal("accepted with empty post title")
	}
	if m.err == "" {
		t.Error("expected an error message")
	}
	if m.focus != 1 {
		t.Errorf("focus = %d, want 1", m.focus)
	}
}

func TestReview_EscAborts(t *testing.T) {
	m := press(newReviewModel(acme), keyEsc)

	if !m.aborted || m.accepted {
		t.Errorf("aborted=%v accepted=%v", m.aborted, m.accepted)
	}
	if m.View() != "" {
		t.Error("view should be empty after abort")
	}
}

func TestReview_ShiftTabWraps(t *testing.T) {
	m := press(newReviewModel(acme), tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != 2 {
		t.Errorf("focus = %d, want 2", m.focus)
	}
}

func TestLoader_DoneQuits(t *testing.T) {
	m := newLoaderModel("Acme", nil)
	next, cmd := m.Update(summaryDoneMsg{fields: acme})
	final := next.(loaderModel)

	if !final.done || final.result != acme {
		t.Errorf("done=%v result=%+v", final.done, final.result)
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestLoader_CtrlCCancels(t *testing.T) {
	m := newLoaderModel("Acme", nil)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	final := next.(loaderModel)

	if !errors.Is(final.err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", final.err)
	}
}

func TestReview_TabMovesInputFocus(t *testing.T) {
	m := press(newReviewModel(acme), keyTab)

	if m.focus != 1 {
		t.Fatalf("focus = %d, want 1", m.focus)
	}
	if m.inputs[0].Focused() || !m.inputs[1].Focused() {
		t.Errorf("focused inputs = [%v %v %v], want only the second",
			m.inputs[0].Focused(), m.inputs[1].Focused(), m.inputs[2].Focused())
	}
}
