package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	blkchn "github.com/sebdeveloper6952/minledger/core/blockchain"
)

// Ledger is the part of the ledger the menu drives.
type Ledger interface {
	NewTransaction(sender, receiver string, amount float64) error
	GenerateBlock(ctx context.Context) error
	UpdateDifficulty(difficulty uint32) error
	UpdateReward(reward float64) error
	LastHash() string
	Height() uint64
	Difficulty() uint32
	Reward() float64
	PendingCount() int
	Blocks() []blkchn.Block
}

const (
	modeSelector = iota
	modeForm
	modeChain
)

const (
	optNewTransaction = iota
	optMineBlock
	optDifficulty
	optReward
	optShowChain
	optNewWallet
	optExit
)

type blockMinedMsg struct {
	err error
}

// Main model
type model struct {
	ctx           context.Context
	ledger        Ledger
	mode          int
	selectedIndex int
	options       []string
	form          *form
	status        string
	err           error
	mining        bool
	stopMining    context.CancelFunc
	width, height int
}

func newModel(ctx context.Context, ledger Ledger) model {
	return model{
		ctx:    ctx,
		ledger: ledger,
		mode:   modeSelector,
		options: []string{
			"New Transaction",
			"Mine block",
			"Change Difficulty",
			"Change Reward",
			"Show chain",
			"New wallet address",
			"Exit",
		},
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case blockMinedMsg:
		m.mining = false
		if m.stopMining != nil {
			m.stopMining()
			m.stopMining = nil
		}
		if msg.err != nil {
			m.err = fmt.Errorf("mining failed: %w", msg.err)
			m.status = ""
		} else {
			m.err = nil
			m.status = fmt.Sprintf("Block %d mined: %s", m.ledger.Height(), shortHash(m.ledger.LastHash()))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.stopMining != nil {
				m.stopMining()
			}
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeChain:
			if msg.String() == "esc" || msg.String() == "enter" {
				m.mode = modeSelector
			}
			return m, nil
		default:
			return m.updateSelector(msg)
		}
	}

	return m, nil
}

func (m model) updateSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mining && msg.String() == "esc" {
		// the mined message arrives once GenerateBlock sees the cancellation
		m.stopMining()
		m.status = "Cancelling..."
		return m, nil
	}

	switch msg.String() {
	case "esc", "q":
		return m, tea.Quit
	case "down", "j":
		if m.selectedIndex < len(m.options)-1 {
			m.selectedIndex++
		}
	case "up", "k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case "enter":
		return m.choose()
	}
	return m, nil
}

func (m model) choose() (tea.Model, tea.Cmd) {
	m.err = nil
	switch m.selectedIndex {
	case optNewTransaction:
		m.form = m.transactionForm()
		m.mode = modeForm
	case optMineBlock:
		if m.mining {
			return m, nil
		}
		ctx, cancel := context.WithCancel(m.ctx)
		m.mining = true
		m.stopMining = cancel
		m.status = "Mining... press Esc to cancel"
		return m, mineBlock(ctx, m.ledger)
	case optDifficulty:
		m.form = m.difficultyForm()
		m.mode = modeForm
	case optReward:
		m.form = m.rewardForm()
		m.mode = modeForm
	case optShowChain:
		m.mode = modeChain
	case optNewWallet:
		addr, err := generateAddress()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.status = "New address: " + addr
	case optExit:
		return m, tea.Quit
	}
	return m, nil
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.form = nil
		m.mode = modeSelector
		return m, nil
	}
	cmd, status, done := m.form.update(msg)
	if done {
		m.form = nil
		m.mode = modeSelector
		m.status = status
	}
	return m, cmd
}

func mineBlock(ctx context.Context, ledger Ledger) tea.Cmd {
	return func() tea.Msg {
		return blockMinedMsg{err: ledger.GenerateBlock(ctx)}
	}
}

func (m model) transactionForm() *form {
	return newForm("New Transaction", []field{
		{label: "Sender", placeholder: "Sender address", validate: addressValidator},
		{label: "Receiver", placeholder: "Receiver address", validate: addressValidator},
		{label: "Amount", placeholder: "Amount to send", validate: amountValidator},
	}, func(values []string) (string, error) {
		amount, err := parseAmount(values[2])
		if err != nil {
			return "", err
		}
		if err := m.ledger.NewTransaction(values[0], values[1], amount); err != nil {
			return "", err
		}
		return fmt.Sprintf("Transaction queued, %d pending", m.ledger.PendingCount()), nil
	})
}

func (m model) difficultyForm() *form {
	return newForm("Change Difficulty", []field{
		{label: "Difficulty", placeholder: fmt.Sprintf("1-%d", blkchn.MaxDifficulty), validate: difficultyValidator},
	}, func(values []string) (string, error) {
		d, err := parseDifficulty(values[0])
		if err != nil {
			return "", err
		}
		if err := m.ledger.UpdateDifficulty(d); err != nil {
			return "", err
		}
		return fmt.Sprintf("Difficulty set to %d", d), nil
	})
}

func (m model) rewardForm() *form {
	return newForm("Change Reward", []field{
		{label: "Reward", placeholder: "Reward paid to the miner", validate: amountValidator},
	}, func(values []string) (string, error) {
		r, err := parseAmount(values[0])
		if err != nil {
			return "", err
		}
		if err := m.ledger.UpdateReward(r); err != nil {
			return "", err
		}
		return fmt.Sprintf("Reward set to %v", r), nil
	})
}

func (m model) View() string {
	var content string

	switch m.mode {
	case modeForm:
		content = m.form.View()
	case modeChain:
		content = renderChain(m.ledger.Blocks())
	default:
		content = m.selectorView()
	}

	return Centered(content, m.width, m.height)
}

func (m model) selectorView() string {
	var sb strings.Builder
	summary := fmt.Sprintf("height %d | difficulty %d | reward %v | pending %d\nlast hash %s",
		m.ledger.Height(), m.ledger.Difficulty(), m.ledger.Reward(), m.ledger.PendingCount(),
		hashStyle.Render(m.ledger.LastHash()))
	sb.WriteString(headerStyle.Render(summary) + "\n\n")

	sb.WriteString("~~ Menu ~~\n\n")
	for i, option := range m.options {
		if i == m.selectedIndex {
			sb.WriteString("=> " + selectedStyle.Render(option) + "\n\n")
		} else {
			sb.WriteString("=> " + unSelectedStyle.Render(option) + "\n\n")
		}
	}

	if m.err != nil {
		sb.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		sb.WriteString(statusStyle.Render(m.status) + "\n")
	}
	sb.WriteString(helpStyle.Render("\nPress Esc to quit."))
	return sb.String()
}

// Run blocks until the operator exits the menu or ctx is cancelled.
func Run(ctx context.Context, ledger Ledger) error {
	p := tea.NewProgram(newModel(ctx, ledger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
