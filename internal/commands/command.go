package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeShow    Type = "show"
	TypeArchive Type = "archive"
	TypeRestore Type = "restore"
	TypeDelete  Type = "delete"
	TypePurge   Type = "purge"
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

type AddArgs struct {
	Title string
}

type ShowArgs struct {
	Subject  string
	Category string
}

type TargetArgs struct {
	ID string
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Show    *ShowArgs
	Archive *TargetArgs
	Restore *TargetArgs
	Delete  *TargetArgs
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
	case TypeShow:
		return parseShow(input, args)
	case TypeArchive:
		return parseTarget(input, TypeArchive, args)
	case TypeRestore:
		return parseTarget(input, TypeRestore, args)
	case TypeDelete:
		return parseTarget(input, TypeDelete, args)
	case TypePurge:
		if len(args) != 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "purge takes no arguments"}
		}
		return Command{Type: TypePurge, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	subject := strings.ToLower(args[0])
	if subject != "active" && subject != "archive" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show subject must be active or archive"}
	}
	category := ""
	for _, arg := range args[1:] {
		if strings.HasPrefix(strings.ToLower(arg), "category:") {
			category = strings.TrimSpace(arg[len("category:"):])
		}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject, Category: category}}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a task id", typ)}
	}
	target := &TargetArgs{ID: args[0]}
	cmd := Command{Type: typ, Raw: raw}
	switch typ {
	case TypeArchive:
		cmd.Archive = target
	case TypeRestore:
		cmd.Restore = target
	case TypeDelete:
		cmd.Delete = target
	}
	return cmd, nil
}
