package flatjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	obj, err := Parse("\x00\x00  { \"name\" : \"alice\" , \"age\":30 }\n\x00")
	require.NoError(t, err)
	require.Len(t, obj, 2)
	assert.Equal(t, Field{Key: "name", Value: "alice"}, obj[0])
	assert.Equal(t, Field{Key: "age", Value: "30"}, obj[1])
}

func TestParse_SplitsOnFirstColon(t *testing.T) {
	obj, err := Parse(`{"url":"http://x"}`)
	require.NoError(t, err)
	v, ok := obj.Lookup("url")
	require.True(t, ok)
	assert.Equal(t, "http://x", v)
}

func TestParse_Malformed(t *testing.T) {
	bodies := []string{
		"",
		"   ",
		"{",
		"}",
		"{}",
		`"name":"x"`,
		`["name","x"]`,
		`{"name" "x"}`,
		`{"name":"x",}`,
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			_, err := Parse(body)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeUser(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    UserMessage
		wantErr error
	}{
		{name: "quoted age", body: `{"name":"bob","age":"42"}`, want: UserMessage{Name: "bob", Age: 42}},
		{name: "unquoted age", body: `{"age":7,"name":"eve"}`, want: UserMessage{Name: "eve", Age: 7}},
		{name: "unknown keys ignored", body: `{"name":"z","age":0,"role":"admin"}`, want: UserMessage{Name: "z", Age: 0}},
		{name: "age upper bound", body: `{"name":"old","age":255}`, want: UserMessage{Name: "old", Age: 255}},
		{name: "last key wins", body: `{"name":"a","name":"b","age":1}`, want: UserMessage{Name: "b", Age: 1}},
		{name: "missing age", body: `{"name":"bob"}`, wantErr: ErrMissingField},
		{name: "missing name", body: `{"age":3}`, wantErr: ErrMissingField},
		{name: "empty name", body: `{"name":"","age":3}`, wantErr: ErrMissingField},
		{name: "non numeric age", body: `{"name":"bob","age":"old"}`, wantErr: ErrInvalidField},
		{name: "age overflow", body: `{"name":"bob","age":256}`, wantErr: ErrInvalidField},
		{name: "plus signed age", body: `{"name":"bob","age":+5}`, want: UserMessage{Name: "bob", Age: 5}},
		{name: "negative age", body: `{"name":"bob","age":-1}`, wantErr: ErrInvalidField},
		{name: "bare plus", body: `{"name":"bob","age":+}`, wantErr: ErrInvalidField},
		{name: "double plus", body: `{"name":"bob","age":++5}`, wantErr: ErrInvalidField},
		{name: "later invalid age", body: `{"name":"bob","age":3,"age":"x"}`, wantErr: ErrInvalidField},
		{name: "comma in name", body: `{"name":"a,b","age":3}`, wantErr: ErrMalformed},
		{name: "no braces", body: `name=bob&age=3`, wantErr: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeUser(tt.body)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeMath(t *testing.T) {
	got, err := DecodeMath(`{"operator":"/","arg1":-10,"arg2":"3"}`)
	require.NoError(t, err)
	assert.Equal(t, MathMessage{Operator: "/", Arg1: -10, Arg2: 3}, got)

	got, err = DecodeMath(`{"operator":"%","arg1":9223372036854775807,"arg2":-9223372036854775808}`)
	require.NoError(t, err)
	assert.Equal(t, "%", got.Operator)
	assert.Equal(t, int64(9223372036854775807), got.Arg1)

	_, err = DecodeMath(`{"operator":"+","arg1":2}`)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = DecodeMath(`{"operator":"+","arg1":2,"arg2":2.5}`)
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = DecodeMath(`{"arg1":2,"arg2":3}`)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = DecodeMath(`{"operator":"+","arg1":99999999999999999999,"arg2":1}`)
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestEncode(t *testing.T) {
	assert.Equal(t, `{"name":"alice","age":30}`, EncodeUser(UserMessage{Name: "alice", Age: 30}))
	assert.Equal(t, `[]`, EncodeUsers(nil))
	assert.Equal(t,
		`[{"name":"a","age":1},{"name":"b","age":2}]`,
		EncodeUsers([]UserMessage{{Name: "a", Age: 1}, {Name: "b", Age: 2}}),
	)
	assert.Equal(t, `{"result":5,"expression":"2 + 3 = 5"}`, EncodeMathResult(5, "2 + 3 = 5"))
}

func TestEncodeUser_NoEscaping(t *testing.T) {
	assert.Equal(t, `{"name":"say "hi"","age":1}`, EncodeUser(UserMessage{Name: `say "hi"`, Age: 1}))
}

func TestRoundTrip(t *testing.T) {
	for _, u := range []UserMessage{
		{Name: "alice", Age: 0},
		{Name: "Bob Smith", Age: 255},
		{Name: "x", Age: 17},
	} {
		got, err := DecodeUser(EncodeUser(u))
		require.NoError(t, err)
		assert.Equal(t, u, got)
	}
}
