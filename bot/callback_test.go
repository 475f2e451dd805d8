package bot

import (
	"reflect"
	"testing"
)

func TestParseCallback(t *testing.T) {
	cases := []struct {
		data   string
		action string
		args   []string
	}{
		{"menu:main", "menu", []string{"main"}},
		{"noop", "noop", nil},
		{"", "noop", nil},
		{"inv:edit:15", "inv", []string{"edit", "15"}},
		{"plan:sup:16.06.2025:Алекс", "plan", []string{"sup", "16.06.2025", "Алекс"}},
	}
	for _, c := range cases {
		cb := ParseCallback(c.data)
		if cb.Action != c.action {
			t.Errorf("ParseCallback(%q).Action = %q, ожидалось %q", c.data, cb.Action, c.action)
		}
		if len(c.args) == 0 && len(cb.Args) != 0 {
			t.Errorf("ParseCallback(%q).Args = %v, ожидалось пусто", c.data, cb.Args)
		}
		if len(c.args) > 0 && !reflect.DeepEqual(cb.Args, c.args) {
			t.Errorf("ParseCallback(%q).Args = %v, ожидалось %v", c.data, cb.Args, c.args)
		}
	}
}

func TestCallbackRoundTrip(t *testing.T) {
	data := CB(acPlan, "sup", "16.06.2025", "Алекс")
	cb := ParseCallback(data)
	if cb.Action != acPlan || cb.Arg(0) != "sup" || cb.Arg(1) != "16.06.2025" || cb.Arg(2) != "Алекс" {
		t.Errorf("round trip: %+v", cb)
	}
}

func TestCallbackRestJoinsSupplierName(t *testing.T) {
	// имя поставщика с двоеточием не должно терять хвост
	cb := ParseCallback(CB(acSup, "pick", "ООО: Ромашка"))
	if got := cb.Rest(1); got != "ООО: Ромашка" {
		t.Errorf("Rest(1) = %q", got)
	}
}

func TestCallbackIntAndMissingArgs(t *testing.T) {
	cb := ParseCallback("inv:show:42")
	if cb.Int(1) != 42 {
		t.Errorf("Int(1) = %d", cb.Int(1))
	}
	if cb.Int(5) != 0 || cb.Arg(5) != "" || cb.Rest(5) != "" {
		t.Error("отсутствующие аргументы должны давать нулевые значения")
	}
}
