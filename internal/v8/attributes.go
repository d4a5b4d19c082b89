package v8

// PropertyAttribute is a bit set of property flags
type PropertyAttribute int

const (
	None       PropertyAttribute = 0
	ReadOnly   PropertyAttribute = 1 << 0
	DontEnum   PropertyAttribute = 1 << 1
	DontDelete PropertyAttribute = 1 << 2
)

func (a PropertyAttribute) Has(flag PropertyAttribute) bool {
	return a&flag == flag
}

func (a PropertyAttribute) String() string {
	if a == None {
		return "None"
	}
	var out string
	for _, f := range []struct {
		flag PropertyAttribute
		name string
	}{{ReadOnly, "ReadOnly"}, {DontEnum, "DontEnum"}, {DontDelete, "DontDelete"}} {
		if a.Has(f.flag) {
			if out != "" {
				out += "|"
			}
			out += f.name
		}
	}
	return out
}
