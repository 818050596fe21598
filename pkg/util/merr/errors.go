// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

const (
	CanceledCode int32 = 10000
	TimeoutCode  int32 = 10001
)

type ErrorType int32

const (
	SystemError ErrorType = 0
	InputError  ErrorType = 1
)

var ErrorTypeName = map[ErrorType]string{
	SystemError: "system_error",
	InputError:  "input_error",
}

func (err ErrorType) String() string {
	return ErrorTypeName[err]
}

// Define leaf errors here,
// WARN: take care to add new error,
// check whether you can use the errors below before adding a new one.
// Name: Err + related prefix + error name
var (
	// Codec related
	ErrSerializeUnsupported = newObjError("value cannot be serialized", 100, false)
	ErrDeserializeFailed    = newObjError("failed to deserialize value", 101, false)
	ErrIndexOutOfRange      = newObjError("index out of range", 102, false, WithErrorType(InputError))
	ErrDigestUnsupported    = newObjError("unsupported digest algorithm", 103, false, WithErrorType(InputError))

	// IO related
	ErrIoFailed       = newObjError("IO failed", 200, false)
	ErrIoFileNotFound = newObjError("file not found", 201, false)
	ErrIoUnexpectEOF  = newObjError("unexpected EOF", 202, true)

	// JSON text related
	ErrJSONDecodeFailed = newObjError("failed to decode json", 300, false)
	ErrJSONEncodeFailed = newObjError("failed to encode json", 301, false)

	// Parameter related
	ErrParameterInvalid = newObjError("invalid parameter", 400, false, WithErrorType(InputError))
	ErrParameterMissing = newObjError("missing parameter", 401, false, WithErrorType(InputError))

	// Compression related
	ErrCompressFailed   = newObjError("compression failed", 500, false)
	ErrDecompressFailed = newObjError("decompression failed", 501, false)

	// Async execution related
	ErrPoolSubmitFailed = newObjError("failed to submit task to pool", 600, true)

	// Do NOT export this,
	// never allow programmer using this, keep only for converting unknown error to objError
	errUnexpected = newObjError("unexpected error", (1<<16)-1, false)
)

type errorOption func(*objError)

func WithDetail(detail string) errorOption {
	return func(err *objError) {
		err.detail = detail
	}
}

func WithErrorType(etype ErrorType) errorOption {
	return func(err *objError) {
		err.errType = etype
	}
}

type objError struct {
	msg       string
	detail    string
	retriable bool
	errCode   int32
	errType   ErrorType
}

func newObjError(msg string, code int32, retriable bool, options ...errorOption) objError {
	err := objError{
		msg:       msg,
		detail:    msg,
		retriable: retriable,
		errCode:   code,
	}

	for _, option := range options {
		option(&err)
	}
	return err
}

func (e objError) code() int32 {
	return e.errCode
}

func (e objError) Error() string {
	return e.msg
}

func (e objError) Detail() string {
	return e.detail
}

func (e objError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(objError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// To make merr work for multi errors,
	// we need cause of multi errors, which defined as the last error
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
