// Package tui is a terminal checkout screen.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/notify"
	"github.com/fjod/go_cart/storefront/internal/storefront"
)

const requestTimeout = 30 * time.Second

// Page is the storefront page the screen drives.
type Page interface {
	Open(ctx context.Context) error
	Summary(ctx context.Context) (storefront.Summary, error)
	SelectAddress(id string) bool
	PlaceOrder(ctx context.Context) (*domain.OrderConfirmation, error)
}

type loadedMsg struct {
	summary storefront.Summary
	err     error
}

type orderMsg struct {
	confirmation *domain.OrderConfirmation
	summary      storefront.Summary
	err          error
}

type Model struct {
	page    Page
	notes   *notify.Recorder
	summary storefront.Summary
	cursor  int
	status  string
	busy    bool
	placed  *domain.OrderConfirmation
}

// New builds the screen. notes must be one of the sinks the page notifies;
// its latest message is shown in the status line.
func New(page Page, notes *notify.Recorder) Model {
	return Model{page: page, notes: notes, status: "Loading...", busy: true}
}

func (m Model) Init() tea.Cmd {
	return loadCmd(m.page)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.summary.Addresses.Addresses)-1 {
				m.cursor++
			}
		case "r":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.status = "Loading..."
			return m, loadCmd(m.page)
		case "enter":
			if m.busy {
				return m, nil
			}
			if addrs := m.summary.Addresses.Addresses; m.cursor < len(addrs) {
				m.page.SelectAddress(addrs[m.cursor].ID)
			}
			m.busy = true
			m.status = "Placing order..."
			return m, placeOrderCmd(m.page)
		}
	case loadedMsg:
		m.busy = false
		m.applySummary(msg.summary)
		m.status = m.latestNote("Ready")
		if msg.err != nil && m.status == "Ready" {
			m.status = msg.err.Error()
		}
	case orderMsg:
		m.busy = false
		m.applySummary(msg.summary)
		if msg.err == nil {
			m.placed = msg.confirmation
		}
		m.status = m.latestNote("")
		if m.status == "" && msg.err != nil {
			m.status = msg.err.Error()
		}
	}
	return m, nil
}

func (m *Model) applySummary(s storefront.Summary) {
	m.summary = s
	if n := len(s.Addresses.Addresses); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m Model) latestNote(fallback string) string {
	if m.notes == nil {
		return fallback
	}
	n, ok := m.notes.Last()
	if !ok {
		return fallback
	}
	m.notes.Reset()
	return n.Message
}

func (m Model) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "Checkout")
	fmt.Fprintln(b, "")

	if len(m.summary.Items) == 0 {
		fmt.Fprintln(b, "  Your cart is empty")
	}
	for _, item := range m.summary.Items {
		fmt.Fprintf(b, "  %-40s %3d x %8.2f = %9.2f\n", item.Name, item.Quantity, item.Cost, item.Total())
	}
	fmt.Fprintln(b, "")
	fmt.Fprintf(b, "Items: %d  Subtotal: %.2f  Wallet: %.2f\n", m.summary.ItemCount, m.summary.Subtotal, m.summary.Balance)
	fmt.Fprintln(b, "")

	fmt.Fprintln(b, "Shipping address:")
	if len(m.summary.Addresses.Addresses) == 0 {
		fmt.Fprintln(b, "  No addresses found for this account. Add one with `storefront addresses add`.")
	}
	for i, a := range m.summary.Addresses.Addresses {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		mark := "[ ]"
		if a.ID == m.summary.Addresses.SelectedID {
			mark = "[x]"
		}
		fmt.Fprintf(b, " %s %s %s\n", cursor, mark, a.Text)
	}

	fmt.Fprintln(b, "")
	if m.placed != nil {
		fmt.Fprintf(b, "Order %s placed. New balance: %.2f\n", m.placed.OrderID, m.placed.NewBalance)
	}
	fmt.Fprintf(b, "Status: %s\n", m.status)
	fmt.Fprintln(b, "\nControls: up/down choose address, enter place order, r reload, q quit")
	return b.String()
}

func loadCmd(page Page) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := page.Open(ctx)
		summary, sumErr := page.Summary(ctx)
		if err == nil {
			err = sumErr
		}
		return loadedMsg{summary: summary, err: err}
	}
}

func placeOrderCmd(page Page) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		conf, err := page.PlaceOrder(ctx)
		summary, _ := page.Summary(ctx)
		return orderMsg{confirmation: conf, summary: summary, err: err}
	}
}
