package mode

// RegisterDefaults installs the modes spec.md names explicitly as
// "special modes with side effects" (§4.4): autoSave, horzScroll, and
// rtnMsg are global; readOnly and overwrite are buffer-scoped. rtnMsg
// starts enabled, matching the expectation that Success messages show
// by default until a script disables it.
func RegisterDefaults(t *Table) {
	for _, s := range []*Spec{
		{Name: "autoSave", Description: "save the buffer automatically after $autoSave keystrokes", Global: true},
		{Name: "horzScroll", Description: "scroll every window on a screen together", Global: true},
		{Name: "rtnMsg", Description: "display Success return messages on the message line", Global: true, enabled: true},
		{Name: "readOnly", Description: "buffer cannot be modified"},
		{Name: "overwrite", Description: "typed characters replace instead of insert"},
	} {
		t.Register(s)
	}
}
