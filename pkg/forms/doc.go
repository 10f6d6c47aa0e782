// Package forms validates user input against rules kept as data.
//
// The rules live in rules.yaml, embedded at build time and replaceable at run
// time with [Load] or [LoadFile]. Each form is an ordered list of fields with a
// go-playground/validator tag string; checking a form never needs code changes
// when a threshold moves.
//
//	rules := forms.Default()
//	clean, err := rules.Validate(forms.CreateComment, map[string]string{"content": input})
//	var fe forms.Errors
//	if errors.As(err, &fe) {
//	    for _, e := range fe {
//	        fmt.Println(e.Message)
//	    }
//	}
//
// Validate returns the submitted values with trimming applied, which is what
// should be sent to the server.
package forms
