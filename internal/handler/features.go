package handler

import "encoding/json"

// encodeFeatures stores the feature list as a JSON string column
func encodeFeatures(features []string) (string, error) {
	if len(features) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(features)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
