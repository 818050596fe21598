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
	"context"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
)

type ErrSuite struct {
	suite.Suite
}

func (s *ErrSuite) TestCode() {
	err := WrapErrIoFileNotFound("/tmp/missing.bin")
	errors.Wrap(err, "failed to import")
	s.ErrorIs(err, ErrIoFileNotFound)
	s.Equal(Code(ErrIoFileNotFound), Code(err))
	s.Equal(TimeoutCode, Code(context.DeadlineExceeded))
	s.Equal(CanceledCode, Code(context.Canceled))
	s.Equal(errUnexpected.errCode, Code(errUnexpected))
	s.Equal(errUnexpected.errCode, Code(errors.New("plain")))
	s.Equal(int32(0), Code(nil))

	sameCodeErr := newObjError("new error", ErrIoFileNotFound.errCode, false)
	s.True(sameCodeErr.Is(ErrIoFileNotFound))
}

func (s *ErrSuite) TestWrap() {
	// 编解码相关错误。
	s.ErrorIs(WrapErrSerializeUnsupported(make(chan int), errors.New("unsupported type")), ErrSerializeUnsupported)
	s.ErrorIs(WrapErrDeserializeFailed(struct{}{}, errors.New("bad input")), ErrDeserializeFailed)
	s.ErrorIs(WrapErrIndexOutOfRange(4, 10, 8, "slice"), ErrIndexOutOfRange)
	s.ErrorIs(WrapErrDigestUnsupported("md4"), ErrDigestUnsupported)

	// IO 相关错误。
	s.ErrorIs(WrapErrIoFailed("test_path", os.ErrClosed), ErrIoFailed)
	s.ErrorIs(WrapErrIoFailedReason("disk full"), ErrIoFailed)
	s.ErrorIs(WrapErrIoFileNotFound("test_path", "failed to read"), ErrIoFileNotFound)
	s.ErrorIs(WrapErrIoUnexpectEOF("test_path", os.ErrClosed), ErrIoUnexpectEOF)

	// JSON 相关错误。
	s.ErrorIs(WrapErrJSONDecodeFailed("a.json", errors.New("syntax")), ErrJSONDecodeFailed)
	s.ErrorIs(WrapErrJSONEncodeFailed(1, errors.New("unsupported")), ErrJSONEncodeFailed)

	// 参数相关错误。
	s.ErrorIs(WrapErrParameterInvalid("cbor", "gob", "unknown serializer"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterInvalidRange(0, 8, 9, "offset"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterInvalidMsg("bad %s", "value"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterMissing("path"), ErrParameterMissing)

	// 压缩与协程池相关错误。
	s.ErrorIs(WrapErrCompressFailed(errors.New("closed")), ErrCompressFailed)
	s.ErrorIs(WrapErrDecompressFailed("a.bin", errors.New("corrupt")), ErrDecompressFailed)
	s.ErrorIs(WrapErrPoolSubmitFailed(errors.New("overload")), ErrPoolSubmitFailed)
}

func (s *ErrSuite) TestWrapNil() {
	s.Nil(WrapErrIoFailed("p", nil))
	s.Nil(WrapErrDeserializeFailed(1, nil))
	s.Nil(WrapErrJSONDecodeFailed("p", nil))
}

func (s *ErrSuite) TestMessage() {
	err := WrapErrIndexOutOfRange(4, 10, 8)
	s.Equal("index out of range[offset=4][length=10][size=8]", err.Error())

	err = WrapErrIoFailed("a/b", errors.New("permission denied"))
	s.Equal("IO failed[path=a/b]: permission denied", err.Error())
}

func (s *ErrSuite) TestErrorType() {
	s.Equal(InputError, GetErrorType(WrapErrIndexOutOfRange(1, 2, 0)))
	s.Equal(SystemError, GetErrorType(WrapErrIoFailed("p", os.ErrClosed)))
	s.Equal(InputError, GetErrorType(WrapErrAsInputError(ErrIoFailed)))
	s.Equal("input_error", InputError.String())
}

func (s *ErrSuite) TestRetryable() {
	s.True(IsRetryableErr(WrapErrIoUnexpectEOF("p", os.ErrClosed)))
	s.False(IsRetryableErr(WrapErrIoFailed("p", os.ErrClosed)))
	s.False(IsRetryableErr(errors.New("plain")))
	s.True(IsCanceledOrTimeout(context.Canceled))
}

func (s *ErrSuite) TestCombine() {
	var (
		errFirst  = errors.New("first")
		errSecond = errors.New("second")
		errThird  = errors.New("third")
	)

	err := Combine(errFirst, errSecond)
	s.True(errors.Is(err, errFirst))
	s.True(errors.Is(err, errSecond))
	s.False(errors.Is(err, errThird))

	s.Equal("first: second", err.Error())
}

func (s *ErrSuite) TestCombineWithNil() {
	err := errors.New("non-nil")

	err = Combine(nil, err)
	s.NotNil(err)
}

func (s *ErrSuite) TestCombineOnlyNil() {
	err := Combine(nil, nil)
	s.Nil(err)
}

func (s *ErrSuite) TestCombineCode() {
	err := Combine(WrapErrIoFailed("p", os.ErrClosed), WrapErrIoFileNotFound("p"))
	s.Equal(Code(ErrIoFileNotFound), Code(err))
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(ErrSuite))
}
