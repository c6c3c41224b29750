// Package commands parses the palette grammar and dispatches typed commands.
package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeSearch  Type = "search"
	TypeWeek    Type = "week"
	TypeArchive Type = "archive"
	TypeExport  Type = "export"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs carries the raw capture line; the text parser does the rest.
type AddArgs struct {
	Input string
}

type SearchArgs struct {
	Query string
}

// WeekArgs selects a week relative to the current one.
type WeekArgs struct {
	Offset int
}

// ArchiveArgs targets either one task id or every completed task.
type ArchiveArgs struct {
	Target string
	Done   bool
}

type ExportArgs struct {
	Path string
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Search  *SearchArgs
	Week    *WeekArgs
	Archive *ArchiveArgs
	Export  *ExportArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeSearch:
		return parseSearch(input, args)
	case TypeWeek:
		return parseWeek(input, args)
	case TypeArchive:
		return parseArchive(input, args)
	case TypeExport:
		return parseExport(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Input: text}}, nil
}

func parseSearch(raw string, args []string) (Command, error) {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "search requires a query"}
	}
	return Command{Type: TypeSearch, Raw: raw, Search: &SearchArgs{Query: query}}, nil
}

func parseWeek(raw string, args []string) (Command, error) {
	offset := 0
	if len(args) > 0 {
		parsed, err := strconv.Atoi(strings.TrimPrefix(args[0], "+"))
		if err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("week offset must be a number, got %q", args[0])}
		}
		offset = parsed
	}
	return Command{Type: TypeWeek, Raw: raw, Week: &WeekArgs{Offset: offset}}, nil
}

func parseArchive(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "archive requires a task id or 'done'"}
	}
	target := args[0]
	if strings.EqualFold(target, "done") {
		return Command{Type: TypeArchive, Raw: raw, Archive: &ArchiveArgs{Done: true}}, nil
	}
	return Command{Type: TypeArchive, Raw: raw, Archive: &ArchiveArgs{Target: target}}, nil
}

func parseExport(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "export requires a destination path"}
	}
	return Command{Type: TypeExport, Raw: raw, Export: &ExportArgs{Path: strings.Join(args, " ")}}, nil
}
