package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Show    func(ShowArgs) (Result, error)
	Archive func(TargetArgs) (Result, error)
	Restore func(TargetArgs) (Result, error)
	Delete  func(TargetArgs) (Result, error)
	Purge   func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "show handler not configured"}
		}
		return handlers.Show(*cmd.Show)
	case TypeArchive:
		if handlers.Archive == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "archive handler not configured"}
		}
		return handlers.Archive(*cmd.Archive)
	case TypeRestore:
		if handlers.Restore == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "restore handler not configured"}
		}
		return handlers.Restore(*cmd.Restore)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "delete handler not configured"}
		}
		return handlers.Delete(*cmd.Delete)
	case TypePurge:
		if handlers.Purge == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "purge handler not configured"}
		}
		return handlers.Purge()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
