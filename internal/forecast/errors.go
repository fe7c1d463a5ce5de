package forecast

import "fmt"

type panicError struct {
	value any
}

func (e panicError) Error() string {
	return fmt.Sprintf("model panicked: %v", e.value)
}
