package bintape

import (
	"encoding/json"
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

func Debug(arg interface{}) {
	spew.Dump(arg)
}

// DumpRegistry prints the finalized field values as indented JSON.
func DumpRegistry(registry *FieldRegistry) {
	fmt.Println(StringIndent(registry))
}

func StringIndent(v interface{}) string {
	result, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		panic(err)
	}
	return string(result)
}
