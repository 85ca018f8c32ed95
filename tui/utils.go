package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	blkchn "github.com/sebdeveloper6952/minledger/core/blockchain"
)

func Centered(content string, w, h int) string {
	return lipgloss.Place(
		w, h,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Render(content),
		lipgloss.WithWhitespaceChars(" "),
	)
}

func addressValidator(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("address cannot be empty")
	}
	return nil
}

func amountValidator(input string) error {
	if _, err := parseAmount(input); err != nil {
		return errors.New("amount should be a valid number")
	}
	return nil
}

func difficultyValidator(input string) error {
	if _, err := parseDifficulty(input); err != nil {
		return fmt.Errorf("difficulty should be a whole number between 1 and %d", blkchn.MaxDifficulty)
	}
	return nil
}

func parseAmount(input string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(input), 64)
}

func parseDifficulty(input string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(input), 10, 32)
	if err != nil {
		return 0, err
	}
	if v == 0 || v > blkchn.MaxDifficulty {
		return 0, blkchn.ErrInvalidDifficulty
	}
	return uint32(v), nil
}

func shortHash(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return hash[:16] + "…"
}

func renderChain(blocks []blkchn.Block) string {
	var sb strings.Builder
	sb.WriteString("~~ Chain ~~\n\n")
	for i, b := range blocks {
		sb.WriteString(inputStyle.Render(fmt.Sprintf("Block %d", i)))
		sb.WriteString(fmt.Sprintf("  nonce %d  difficulty %d  prev %s  merkle %s\n",
			b.Header.Nonce, b.Header.Difficulty,
			hashStyle.Render(shortHash(b.Header.PrevHash)), hashStyle.Render(shortHash(b.Header.MerkleRoot))))
		for _, tx := range b.Transactions {
			sb.WriteString("    " + tx.String() + "\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render("Press Esc to go back."))
	return sb.String()
}
