package bracket

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
)

// Accommodation is a place a user picked for a destination. Only ID matters to the
// bracket. Every other key the client sent (name, price, image, amenities, ...) is kept
// verbatim in Attributes and written back unchanged.
type Accommodation struct {
	ID         string
	Attributes map[string]json.RawMessage
}

func (a Accommodation) fields() map[string]json.RawMessage {
	fields := make(map[string]json.RawMessage, len(a.Attributes)+1)
	maps.Copy(fields, a.Attributes)
	id, _ := json.Marshal(a.ID)
	fields["id"] = id
	return fields
}

func (a Accommodation) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.fields())
}

func (a *Accommodation) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	id, err := decodeID(fields["id"])
	if err != nil {
		return err
	}
	delete(fields, "id")

	a.ID = id
	a.Attributes = nil
	if len(fields) > 0 {
		a.Attributes = fields
	}
	return nil
}

// decodeID accepts string and numeric ids. A missing id decodes as "".
func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("accommodation id must be a string or number: %s", raw)
	}
	return n.String(), nil
}

// Competitor is a deduplicated accommodation in a bracket. It is written as one flat object:
// the accommodation's keys plus submissionCount and seed.
//
// SubmissionCount is the vote bonus that has not been handed out yet; it drops to zero the
// first time the competitor receives a vote. Seed is the submission count at generation
// time and never changes.
type Competitor struct {
	Accommodation
	SubmissionCount int
	Seed            int
}

func (c Competitor) MarshalJSON() ([]byte, error) {
	fields := c.Accommodation.fields()
	fields["submissionCount"] = json.RawMessage(strconv.Itoa(c.SubmissionCount))
	fields["seed"] = json.RawMessage(strconv.Itoa(c.Seed))
	return json.Marshal(fields)
}

func (c *Competitor) UnmarshalJSON(data []byte) error {
	var counts struct {
		SubmissionCount int `json:"submissionCount"`
		Seed            int `json:"seed"`
	}
	if err := json.Unmarshal(data, &counts); err != nil {
		return err
	}
	if err := c.Accommodation.UnmarshalJSON(data); err != nil {
		return err
	}

	delete(c.Accommodation.Attributes, "submissionCount")
	delete(c.Accommodation.Attributes, "seed")
	if len(c.Accommodation.Attributes) == 0 {
		c.Accommodation.Attributes = nil
	}
	c.SubmissionCount = counts.SubmissionCount
	c.Seed = counts.Seed
	return nil
}

// takeBonus returns the remaining bonus and zeroes it.
func (c *Competitor) takeBonus() int {
	bonus := c.SubmissionCount
	c.SubmissionCount = 0
	return bonus
}
