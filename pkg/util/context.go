package util

type ContextKey string

func (c ContextKey) String() string {
	return "vidgrab_" + string(c)
}

var RequestIDContextKey ContextKey = "request_id"
var JobIDContextKey ContextKey = "job_id"
