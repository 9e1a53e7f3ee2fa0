package ui

import (
	"errors"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/manifoldco/promptui"
)

// ErrCancelled is returned when the user aborts a prompt
var ErrCancelled = errors.New("cancelled by user")

// InputPrompt asks for text input with optional validation
func InputPrompt(label string, defaultValue string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   defaultValue,
		AllowEdit: true,
		Validate:  validate,
	}

	result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return "", ErrCancelled
		}
		return "", err
	}

	return strings.TrimSpace(result), nil
}

// PausePrompt waits for Enter
func PausePrompt(label string) error {
	prompt := promptui.Prompt{
		Label:       label,
		HideEntered: true,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return ErrCancelled
		}
		return err
	}
	return nil
}

// SelectPrompt presents a menu that can be narrowed by typing
func SelectPrompt(label string, items []string) (int, error) {
	prompt := promptui.Select{
		Label:    label,
		Items:    items,
		Size:     len(items),
		Searcher: MenuSearcher(items),
	}

	index, _, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return -1, ErrCancelled
		}
		return -1, err
	}

	return index, nil
}

// MenuSearcher matches typed input against items with fuzzy matching
func MenuSearcher(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if index < 0 || index >= len(items) {
			return false
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return true
		}
		return fuzzy.MatchNormalizedFold(input, items[index])
	}
}

// ValidateNonEmpty rejects blank input
func ValidateNonEmpty(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("input cannot be empty")
	}
	return nil
}
