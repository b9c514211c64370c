package flatjson

import (
	"strconv"
	"strings"
)

// EncodeUser writes {"name":"<name>","age":<age>}.
//
// The name is copied verbatim: quotes, backslashes and control characters are
// not escaped, so a name containing them produces invalid JSON.
func EncodeUser(u UserMessage) string {
	var b strings.Builder
	appendUser(&b, u)
	return b.String()
}

// EncodeUsers writes a JSON array of EncodeUser objects, "[]" when empty.
func EncodeUsers(users []UserMessage) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, u := range users {
		if i > 0 {
			b.WriteByte(',')
		}
		appendUser(&b, u)
	}
	b.WriteByte(']')
	return b.String()
}

func appendUser(b *strings.Builder, u UserMessage) {
	b.WriteString(`{"name":"`)
	b.WriteString(u.Name)
	b.WriteString(`","age":`)
	b.WriteString(strconv.FormatUint(uint64(u.Age), 10))
	b.WriteByte('}')
}

// EncodeMathResult writes {"result":<result>,"expression":"<expression>"}.
func EncodeMathResult(result int64, expression string) string {
	var b strings.Builder
	b.WriteString(`{"result":`)
	b.WriteString(strconv.FormatInt(result, 10))
	b.WriteString(`,"expression":"`)
	b.WriteString(expression)
	b.WriteString(`"}`)
	return b.String()
}
