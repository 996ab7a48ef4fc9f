package ledgerdash

import "testing"

func TestOrderedJSON(t *testing.T) {
	tests := []struct {
		name  string
		build func(o *orderedJSON)
		want  string
	}{
		{"empty", func(o *orderedJSON) {}, `{}`},
		{"insertion order", func(o *orderedJSON) {
			o.Add("z", 1).Add("a", "hello")
		}, `{"z":1,"a":"hello"}`},
		{"non zero", func(o *orderedJSON) {
			o.Add("a", 0)
			o.AddNonZero("b", "")
			o.AddNonZero("c", false)
			o.AddNonZero("d", nil)
			o.AddNonZero("e", "hello")
		}, `{"a":0,"e":"hello"}`},
		{"nested", func(o *orderedJSON) {
			var inner orderedJSON
			inner.Add("y", []int{1, 2})
			o.Add("x", &inner)
		}, `{"x":{"y":[1,2]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o orderedJSON
			tt.build(&o)
			got, err := o.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("MarshalJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOrderedJSON_Error(t *testing.T) {
	var o orderedJSON
	o.Add("ch", make(chan int)).Add("b", 1)
	if _, err := o.MarshalJSON(); err == nil {
		t.Error("MarshalJSON() succeeded with an unsupported value")
	}
}
