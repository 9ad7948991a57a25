package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CommandKind identifies a player command.
type CommandKind int

const (
	CommandNone CommandKind = iota // Empty line; redraw
	CommandChoose
	CommandBack
	CommandRestart
	CommandPause
	CommandQuit
)

// Command is one parsed line of player input.
type Command struct {
	Kind  CommandKind
	Index int // 0-based choice index for CommandChoose
}

// MaxLineLen is the longest accepted input line, in bytes. Commands are a
// single token; story IDs typed at the picker fit as well.
const MaxLineLen = 128

var (
	// ErrUnknownCommand is returned for input that is neither a number nor a known keyword.
	ErrUnknownCommand = errors.New("bilinmeyen komut")
	ErrLineTooLong    = errors.New("satır çok uzun")
	ErrInvalidUTF8    = errors.New("geçersiz karakter kodlaması")
)

var keywords = map[string]CommandKind{
	"b": CommandBack, "back": CommandBack, "geri": CommandBack,
	"r": CommandRestart, "restart": CommandRestart, "yeniden": CommandRestart,
	"p": CommandPause, "pause": CommandPause, "duraklat": CommandPause,
	"q": CommandQuit, "quit": CommandQuit, "exit": CommandQuit, "cik": CommandQuit, "çık": CommandQuit,
}

// ParseCommand interprets a line of input. Choice numbers are 1-based.
func ParseCommand(input string) (Command, error) {
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" {
		return Command{Kind: CommandNone}, nil
	}
	if n, err := strconv.Atoi(text); err == nil {
		if n < 1 {
			return Command{}, fmt.Errorf("%w: seçim numaraları 1'den başlar", ErrUnknownCommand)
		}
		return Command{Kind: CommandChoose, Index: n - 1}, nil
	}
	if kind, ok := keywords[text]; ok {
		return Command{Kind: kind}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, input)
}

// CleanLine prepares one raw input line for ParseCommand. Surrounding space
// is trimmed, tabs become spaces and other control characters (escape
// sequences, NUL, BEL) are dropped. Oversized or non-UTF-8 lines are refused.
func CleanLine(input string) (string, error) {
	input = strings.TrimSpace(input)
	if len(input) > MaxLineLen {
		return "", fmt.Errorf("%w: en fazla %d bayt", ErrLineTooLong, MaxLineLen)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, input)
	return strings.TrimSpace(cleaned), nil
}
