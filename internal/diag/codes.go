package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Синтаксис
	SynSyntaxError      Code = 2001
	SynUnsupportedInput Code = 2002

	// Разрешение типов
	ResUnresolvedType   Code = 3001
	ResFallbackToObject Code = 3002
	ResUnknownTypeName  Code = 3003

	// Специализация
	MonoAnalyzeMethod   Code = 4000
	MonoNoCallSiteTypes Code = 4001
	MonoSkippedArgument Code = 4002
	MonoSpecialized     Code = 4003
	MonoBadTypeSpelling Code = 4004

	// Ввод-вывод и конфигурация
	IOLoadError    Code = 5001
	IOWriteError   Code = 5002
	CfgInvalid     Code = 6001
	CfgArchiveLoad Code = 6002
)

var codeDescription = map[Code]string{
	UnknownCode:         "Unknown error",
	SynSyntaxError:      "Syntax error",
	SynUnsupportedInput: "Unsupported construct",
	ResUnresolvedType:   "Unresolved expression type",
	ResFallbackToObject: "Type variable replaced by fallback type",
	ResUnknownTypeName:  "Unknown type name",
	MonoAnalyzeMethod:   "Analyzing method",
	MonoNoCallSiteTypes: "No call-site types for Any parameter",
	MonoSkippedArgument: "Call-site argument skipped",
	MonoSpecialized:     "Method specialized",
	MonoBadTypeSpelling: "Cannot spell specialized type",
	IOLoadError:         "Cannot read input",
	IOWriteError:        "Cannot write output",
	CfgInvalid:          "Invalid configuration",
	CfgArchiveLoad:      "Cannot load class path archive",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("MONO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
