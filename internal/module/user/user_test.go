package user

import (
	"testing"

	"competition-jury-system/internal/global/response"
	"competition-jury-system/test"

	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	require.NoError(t, validatePasswordStrength("abc12345!"))
	require.Error(t, validatePasswordStrength("a1!"))
	require.Error(t, validatePasswordStrength("12345678!"))
	require.Error(t, validatePasswordStrength("abcdefgh!"))
	require.Error(t, validatePasswordStrength("abcd12345"))
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	test.Setup(t)
	selfInit()
	resp := test.DoRequest(t, Register, map[string]any{
		"username":  "alice",
		"password":  "weak",
		"nick_name": "Alice",
	})
	test.ErrorEqual(t, response.ErrInvalidRequest.WithTips("密码长度必须至少8字符"), resp)
}

func TestRegisterRequiresNickName(t *testing.T) {
	test.Setup(t)
	selfInit()
	resp := test.DoRequest(t, Register, map[string]any{
		"username": "alice",
		"password": "abc12345!",
	})
	require.Equal(t, response.ErrInvalidRequest.Code, resp.Code)
}

func TestLoginRequiresBody(t *testing.T) {
	test.Setup(t)
	selfInit()
	resp := test.DoRequest(t, Login, map[string]any{"username": "alice"})
	require.Equal(t, response.ErrInvalidRequest.Code, resp.Code)
}
