package client

import "github.com/kbukum/studyhub/httpclient"

// Result is the outcome of one logical call. Exactly one of Data and Err is
// meaningful: Err is nil on success.
type Result[T any] struct {
	Data T
	Err  *httpclient.Error
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Unwrap returns the data and the error as a plain error value, nil on
// success.
func (r Result[T]) Unwrap() (T, error) {
	if r.Err != nil {
		return r.Data, r.Err
	}
	return r.Data, nil
}

func ok[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

func fail[T any](err *httpclient.Error) Result[T] {
	return Result[T]{Err: err}
}
