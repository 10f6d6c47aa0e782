package forms_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demoforums/forumclient/pkg/apperror"
	"github.com/demoforums/forumclient/pkg/forms"
)

func fieldErrors(t *testing.T, err error) forms.Errors {
	t.Helper()
	var fe forms.Errors
	require.True(t, errors.As(err, &fe), "expected forms.Errors, got %v", err)
	return fe
}

func TestDefault_Login(t *testing.T) {
	t.Parallel()
	rules := forms.Default()

	clean, err := rules.Validate(forms.Login, map[string]string{"username": "  alice ", "password": " pw "})
	require.NoError(t, err)
	assert.Equal(t, "alice", clean["username"])
	assert.Equal(t, " pw ", clean["password"], "passwords are not trimmed")

	_, err = rules.Validate(forms.Login, map[string]string{"username": "a", "password": ""})
	fe := fieldErrors(t, err)
	require.Len(t, fe, 2)
	assert.Equal(t, "Username must be at least 2 characters", fe[0].Message)
	assert.Equal(t, "min", fe[0].Tag)
	assert.Equal(t, "Password is required", fe[1].Message)

	_, err = rules.Validate(forms.Login, map[string]string{"username": strings.Repeat("x", 101), "password": "pw"})
	fe = fieldErrors(t, err)
	assert.Equal(t, "Username must be at most 100 characters", fe[0].Message)
}

func TestDefault_ChangePassword(t *testing.T) {
	t.Parallel()
	rules := forms.Default()

	_, err := rules.Validate(forms.ChangePassword, map[string]string{
		"currentPassword": "old",
		"newPassword":     "new-secret",
		"confirmPassword": "new-secret",
	})
	require.NoError(t, err)

	_, err = rules.Validate(forms.ChangePassword, map[string]string{
		"currentPassword": "old",
		"newPassword":     "new-secret",
		"confirmPassword": "other",
	})
	fe := fieldErrors(t, err)
	require.Len(t, fe, 1)
	got, ok := fe.Field("confirmPassword")
	require.True(t, ok)
	assert.Equal(t, "Passwords do not match", got.Message)
	assert.Equal(t, "equals", got.Tag)

	_, err = rules.Validate(forms.ChangePassword, map[string]string{
		"currentPassword": "old",
		"newPassword":     "new-secret",
		"confirmPassword": "",
	})
	fe = fieldErrors(t, err)
	got, ok = fe.Field("confirmPassword")
	require.True(t, ok)
	assert.Equal(t, "Confirm password is required", got.Message)
	assert.Equal(t, "required", got.Tag)
}

func TestLoad_MessageOverrides(t *testing.T) {
	t.Parallel()

	rules, err := forms.Load(strings.NewReader(`
forms:
  pin:
    - name: pin
      label: PIN
      rules: required,min=4
      message: Enter a 4 digit PIN
    - name: repeat
      label: Repeat
      rules: required
      equals: pin
      equalsMessage: PINs differ
`))
	require.NoError(t, err)

	_, err = rules.Validate("pin", map[string]string{"pin": "12", "repeat": "13"})
	fe := fieldErrors(t, err)
	got, ok := fe.Field("pin")
	require.True(t, ok)
	assert.Equal(t, "Enter a 4 digit PIN", got.Message)
	got, ok = fe.Field("repeat")
	require.True(t, ok)
	assert.Equal(t, "PINs differ", got.Message)

	_, err = rules.Validate("pin", map[string]string{"pin": "", "repeat": ""})
	fe = fieldErrors(t, err)
	got, ok = fe.Field("pin")
	require.True(t, ok)
	assert.Equal(t, "Enter a 4 digit PIN", got.Message)
	got, ok = fe.Field("repeat")
	require.True(t, ok)
	assert.Equal(t, "Repeat is required", got.Message)
}

func TestDefault_CreateForum(t *testing.T) {
	t.Parallel()
	rules := forms.Default()

	valid := map[string]string{
		"title":       "Go",
		"slug":        "golang",
		"description": "All things Go.",
		"category":    "Technology",
	}
	_, err := rules.Validate(forms.CreateForum, valid)
	fe := fieldErrors(t, err)
	require.Len(t, fe, 1)
	assert.Equal(t, "title", fe[0].Field)

	valid["title"] = "Golang"
	valid["category"] = "Cooking"
	_, err = rules.Validate(forms.CreateForum, valid)
	fe = fieldErrors(t, err)
	require.Len(t, fe, 1)
	assert.Equal(t, "Category must be one of: Technology, Science, Art", fe[0].Message)

	valid["category"] = "Science"
	clean, err := rules.Validate(forms.CreateForum, valid)
	require.NoError(t, err)
	assert.Equal(t, "Science", clean["category"])
}

func TestDefault_CommentAndPost(t *testing.T) {
	t.Parallel()
	rules := forms.Default()

	_, err := rules.Validate(forms.CreateComment, map[string]string{"content": "   "})
	fe := fieldErrors(t, err)
	assert.Equal(t, "Comment is required", fe[0].Message)

	clean, err := rules.Validate(forms.CreateComment, map[string]string{"content": " hi ", "extra": "x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"content": "hi"}, clean)

	_, err = rules.Validate(forms.CreatePost, map[string]string{
		"title":   "Hello",
		"content": strings.Repeat("y", 10001),
	})
	fe = fieldErrors(t, err)
	assert.Equal(t, "content", fe[0].Field)

	appErr := fe.AppError()
	assert.Equal(t, apperror.KindValidation, appErr.Code)
	assert.Equal(t, "Content must be at most 10000 characters", appErr.Message)
}

func TestValidate_UnknownForm(t *testing.T) {
	t.Parallel()

	_, err := forms.Default().Validate("nope", nil)
	require.ErrorIs(t, err, forms.ErrUnknownForm)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	rules, err := forms.Load(strings.NewReader(`
forms:
  search:
    - name: q
      label: Query
      rules: required,max=5
      trim: true
`))
	require.NoError(t, err)

	fields, ok := rules.Fields("search")
	require.True(t, ok)
	require.Len(t, fields, 1)

	_, err = rules.Validate("search", map[string]string{"q": "toolong"})
	fe := fieldErrors(t, err)
	assert.Equal(t, "Query must be at most 5 characters", fe[0].Message)

	for name, doc := range map[string]string{
		"not yaml":      "forms: [",
		"empty":         "forms: {}",
		"nameless":      "forms:\n  f:\n    - label: X\n",
		"bad reference": "forms:\n  f:\n    - name: a\n      equals: b\n",
	} {
		_, err := forms.Load(strings.NewReader(doc))
		require.ErrorIs(t, err, forms.ErrInvalidRules, name)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("forms:\n  f:\n    - name: a\n      rules: required\n"), 0o600))

	rules, err := forms.LoadFile(path)
	require.NoError(t, err)
	_, err = rules.Validate("f", map[string]string{"a": "x"})
	require.NoError(t, err)

	_, err = forms.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, forms.ErrInvalidRules)
}

func TestParseTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"go", "concurrency"}, forms.ParseTags(" go, ,concurrency ,"))
	assert.Equal(t, []string{}, forms.ParseTags(""))
}
