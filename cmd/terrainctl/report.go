package main

import (
	"os"
	"reflect"
	"unsafe"

	jsoniter "github.com/json-iterator/go"

	"github.com/Faultbox/terrain-painter/pkg/grid"
)

// Make sure encoders get registered first
var json = func() jsoniter.API {
	neverEmpty := func(pointer unsafe.Pointer) bool { return false }

	jsoniter.RegisterTypeEncoderFunc(reflect.TypeOf(grid.Point{}).String(), encodePoint, neverEmpty)

	return jsoniter.Config{
		IndentionStep:           2,
		MarshalFloatWith6Digits: true,
		EscapeHTML:              false,
		SortMapKeys:             true,
		TagKey:                  "json",
		CaseSensitive:           true,
	}.Froze()
}()

// Encodes grid.Point as [x, y]
func encodePoint(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	p := (*grid.Point)(ptr)
	stream.WriteArrayStart()
	stream.WriteInt(p.X)
	stream.WriteMore()
	stream.WriteInt(p.Y)
	stream.WriteArrayEnd()
}

// writeReport prints v to stdout as indented JSON.
func writeReport(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = os.Stdout.Write(data)
	return err
}
