package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Search  func(SearchArgs) (Result, error)
	Week    func(WeekArgs) (Result, error)
	Archive func(ArchiveArgs) (Result, error)
	Export  func(ExportArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeSearch:
		if handlers.Search == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "search handler not configured"}
		}
		return handlers.Search(*cmd.Search)
	case TypeWeek:
		if handlers.Week == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "week handler not configured"}
		}
		return handlers.Week(*cmd.Week)
	case TypeArchive:
		if handlers.Archive == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "archive handler not configured"}
		}
		return handlers.Archive(*cmd.Archive)
	case TypeExport:
		if handlers.Export == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "export handler not configured"}
		}
		return handlers.Export(*cmd.Export)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
