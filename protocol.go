package listkit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/emirpasic/gods/v2/containers"
)

var (
	_ containers.Container[int]   = (*ArrayList[int])(nil)
	_ containers.JSONSerializer   = (*ArrayList[int])(nil)
	_ containers.JSONDeserializer = (*ArrayList[int])(nil)
	_ containers.Container[int]   = (*LinkedList[int])(nil)
	_ containers.JSONSerializer   = (*LinkedList[int])(nil)
	_ containers.JSONDeserializer = (*LinkedList[int])(nil)
	_ containers.Container[int]   = (*View[int])(nil)
	_ List[int]                   = (*ArrayList[int])(nil)
	_ List[int]                   = (*LinkedList[int])(nil)
	_ List[int]                   = (*View[int])(nil)
	_ Deque[int]                  = (*LinkedList[int])(nil)
	_ sequence[int]               = (*ArrayList[int])(nil)
	_ sequence[int]               = (*LinkedList[int])(nil)
	_ sequence[int]               = (*View[int])(nil)
)

// render formats vs as "[a, b, c]".
func render[T any](vs []T) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range vs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, v)
	}
	sb.WriteByte(']')
	return sb.String()
}

// String renders the list as "[a, b, c]".
func (l *ArrayList[T]) String() string {
	return render(l.storage[:l.size])
}

// String renders the list as "[a, b, c]".
func (l *LinkedList[T]) String() string {
	return render(l.Values())
}

// String renders the window as "[a, b, c]", or "[]" when the view is stale.
func (v *View[T]) String() string {
	return render(v.Values())
}

// ToJSON encodes the elements as a JSON array.
func (l *ArrayList[T]) ToJSON() ([]byte, error) {
	return json.Marshal(l.Values())
}

// FromJSON replaces the contents with the elements of a JSON array.
func (l *ArrayList[T]) FromJSON(data []byte) error {
	var vs []T
	if err := json.Unmarshal(data, &vs); err != nil {
		return fmt.Errorf("listkit: FromJSON: %w", err)
	}
	return l.replaceValues(vs)
}

// replaceValues swaps in vs as the whole contents in one structural change.
func (l *ArrayList[T]) replaceValues(vs []T) error {
	if len(vs) > 0 {
		if err := l.reserve(len(vs)); err != nil {
			return err
		}
	}
	copy(l.storage, vs)
	if len(vs) < l.size {
		clear(l.storage[len(vs):l.size])
	}
	l.size = len(vs)
	l.gen.bump()
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l *ArrayList[T]) MarshalJSON() ([]byte, error) {
	return l.ToJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *ArrayList[T]) UnmarshalJSON(data []byte) error {
	return l.FromJSON(data)
}

// ToJSON encodes the elements as a JSON array.
func (l *LinkedList[T]) ToJSON() ([]byte, error) {
	return json.Marshal(l.Values())
}

// FromJSON replaces the contents with the elements of a JSON array.
func (l *LinkedList[T]) FromJSON(data []byte) error {
	var vs []T
	if err := json.Unmarshal(data, &vs); err != nil {
		return fmt.Errorf("listkit: FromJSON: %w", err)
	}
	l.nodes.reset()
	l.head, l.tail = 0, 0
	l.size = 0
	if len(vs) == 0 {
		l.gen.bump()
		return nil
	}
	return l.insertValues("FromJSON", 0, vs)
}

// MarshalJSON implements json.Marshaler.
func (l *LinkedList[T]) MarshalJSON() ([]byte, error) {
	return l.ToJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *LinkedList[T]) UnmarshalJSON(data []byte) error {
	return l.FromJSON(data)
}
