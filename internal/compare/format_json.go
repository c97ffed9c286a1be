package compare

import (
	"encoding/json"
)

// JSONFormatter formats a ranking as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// Format generates JSON output for a ranking
func (jf *JSONFormatter) Format(ranking *Ranking) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(ranking, "", "  ")
	} else {
		data, err = json.Marshal(ranking)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}
