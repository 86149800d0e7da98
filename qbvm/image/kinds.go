package image

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	kindLet       = "let"
	kindPrint     = "print"
	kindGoto      = "goto"
	kindGosub     = "gosub"
	kindReturn    = "return"
	kindOnGoto    = "on_goto"
	kindOnGosub   = "on_gosub"
	kindFor       = "for"
	kindNext      = "next"
	kindIf        = "if"
	kindDo        = "do"
	kindLoop      = "loop"
	kindCase      = "case"
	kindCall      = "call"
	kindEndSub    = "end_sub"
	kindExitSub   = "exit_sub"
	kindEnd       = "end"
	kindSystem    = "system"
	kindStop      = "stop"
	kindClear     = "clear"
	kindRun       = "run"
	kindOnError   = "on_error"
	kindResume    = "resume"
	kindError     = "error"
	kindBeep      = "beep"
	kindSound     = "sound"
	kindWait      = "wait"
	kindRandomize = "randomize"
	kindRestore   = "restore"
	kindRead      = "read"
	kindData      = "data"
	kindOpen      = "open"
	kindClose     = "close"
	kindRem       = "rem"
)

var kinds = []string{
	kindLet, kindPrint, kindGoto, kindGosub, kindReturn, kindOnGoto, kindOnGosub,
	kindFor, kindNext, kindIf, kindDo, kindLoop, kindCase, kindCall, kindEndSub,
	kindExitSub, kindEnd, kindSystem, kindStop, kindClear, kindRun, kindOnError,
	kindResume, kindError, kindBeep, kindSound, kindWait, kindRandomize,
	kindRestore, kindRead, kindData, kindOpen, kindClose, kindRem,
}

func isKind(kind string) bool {
	for _, candidate := range kinds {
		if candidate == kind {
			return true
		}
	}
	return false
}

// normalizer folds statement kinds and identifiers into their canonical spelling.
type normalizer struct {
	lower cases.Caser
	upper cases.Caser
}

func newNormalizer() normalizer {
	return normalizer{
		lower: cases.Lower(language.Und),
		upper: cases.Upper(language.Und),
	}
}

// Kind maps "ON GOTO", "On-Goto" and "on_goto" to the same kind.
func (self normalizer) Kind(kind string) string {
	folded := self.lower.String(strings.TrimSpace(kind))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(folded)
}

func (self normalizer) Identifier(name string) string {
	return self.upper.String(strings.TrimSpace(name))
}
