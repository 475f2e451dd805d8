package bot

import (
	"strconv"
	"strings"
)

// Callback — разобранные данные inline-кнопки. Формат: действие и аргументы
// через двоеточие, имя поставщика всегда последним аргументом, потому что может
// само содержать двоеточие.
type Callback struct {
	Action string
	Args   []string
}

// Действия кнопок. Первый сегмент payload.
const (
	acMenu   = "menu"
	acCancel = "cancel"
	acNoop   = "noop"
	acReport = "report"
	acSup    = "sup"
	acInv    = "inv"
	acDebt   = "debt"
	acPlan   = "plan"
	acSafe   = "safe"
	acStock  = "stock"
	acRev    = "rev"
	acShift  = "shift"
	acSalary = "sal"
	acStats  = "stats"
	acDir    = "dir"
	acRep    = "rep"
)

// CB собирает payload кнопки.
func CB(action string, args ...string) string {
	if len(args) == 0 {
		return action
	}
	return action + ":" + strings.Join(args, ":")
}

// ParseCallback разбирает payload. Пустая строка превращается в noop.
func ParseCallback(data string) Callback {
	parts := strings.Split(data, ":")
	if len(parts) == 0 || parts[0] == "" {
		return Callback{Action: acNoop}
	}
	return Callback{Action: parts[0], Args: parts[1:]}
}

// Arg возвращает i-й аргумент или пустую строку.
func (cb Callback) Arg(i int) string {
	if i < len(cb.Args) {
		return cb.Args[i]
	}
	return ""
}

// Int возвращает i-й аргумент числом, 0 при ошибке.
func (cb Callback) Int(i int) int {
	n, err := strconv.Atoi(cb.Arg(i))
	if err != nil {
		return 0
	}
	return n
}

// Rest склеивает аргументы начиная с i-го обратно через двоеточие. Нужно для
// хвостовых аргументов со свободным текстом.
func (cb Callback) Rest(i int) string {
	if i >= len(cb.Args) {
		return ""
	}
	return strings.Join(cb.Args[i:], ":")
}
