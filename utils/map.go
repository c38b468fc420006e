package utils

import (
	"bytes"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/sentinel-ac/sentinel/internal"
)

// OrderedMapToString formats violation evidence into a single bracketed string,
// preserving insertion order. Example: "[dist=50.2 dt=0.05]".
func OrderedMapToString(data *orderedmap.OrderedMap[string, any]) string {
	if data == nil {
		return "[]"
	}

	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	buf.WriteByte('[')
	count := data.Len()
	for _, key := range data.Keys() {
		v, _ := data.Get(key)
		fmt.Fprintf(buf, "%s=%v", key, v)

		count--
		if count > 0 {
			buf.WriteByte(' ')
		}
	}
	buf.WriteByte(']')

	return buf.String()
}
