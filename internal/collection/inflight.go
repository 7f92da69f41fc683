package collection

// Op names a mutating operation tracked for per-row control disabling.
type Op string

const (
	OpCreateTask    Op = "create-task"
	OpToggleTask    Op = "toggle-task"
	OpSaveTask      Op = "save-task"
	OpDeleteTask    Op = "delete-task"
	OpCategorize    Op = "categorize"
	OpAddSubtask    Op = "add-subtask"
	OpToggleSubtask Op = "toggle-subtask"
	OpSaveSubtask   Op = "save-subtask"
	OpDeleteSubtask Op = "delete-subtask"
)

// InFlight tracks which entity ids currently have a request outstanding,
// per operation. The guard is advisory: it only drives UI disabling, one
// row's call never blocks another row's.
type InFlight struct {
	ids map[Op]map[int64]bool
}

func NewInFlight() *InFlight {
	return &InFlight{ids: map[Op]map[int64]bool{}}
}

func (f *InFlight) Begin(op Op, id int64) {
	set := f.ids[op]
	if set == nil {
		set = map[int64]bool{}
		f.ids[op] = set
	}
	set[id] = true
}

func (f *InFlight) End(op Op, id int64) {
	delete(f.ids[op], id)
}

// Busy reports whether the given entity has the given operation in flight.
func (f *InFlight) Busy(op Op, id int64) bool {
	return f.ids[op][id]
}

// Any reports whether anything at all is in flight.
func (f *InFlight) Any() bool {
	for _, set := range f.ids {
		if len(set) > 0 {
			return true
		}
	}
	return false
}
