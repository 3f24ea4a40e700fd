package models

import "encoding/json"

// StringList unmarshals the AWS policy JSON convention where a field holds
// either a single string or an array of strings. "Action": "s3:*" and
// "Action": ["s3:*"] both decode to the same one-element list.
type StringList []string

// UnmarshalJSON accepts both the scalar and array encodings.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = StringList(many)
	return nil
}

// MarshalJSON always emits the array form for a stable wire shape.
func (l StringList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(l))
}

// Contains reports whether s is present in the list.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}
