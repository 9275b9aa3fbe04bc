package catalog

import (
	"errors"
	"strings"

	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/lib/pq"
	"github.com/tidwall/gjson"
)

// ErrMalformed is returned when a response has no data array to walk.
var ErrMalformed = errors.New("malformed catalog response")

// ParseRecords maps the data[] entries of a species-list response into
// plants. Entries without an id or a common name are skipped.
func ParseRecords(raw []byte) ([]models.Plant, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrMalformed
	}
	data := gjson.GetBytes(raw, "data")
	if !data.IsArray() {
		return nil, ErrMalformed
	}

	var plants []models.Plant
	data.ForEach(func(_, rec gjson.Result) bool {
		id := rec.Get("id").Int()
		name := strings.TrimSpace(rec.Get("common_name").String())
		if id <= 0 || name == "" {
			return true
		}
		plants = append(plants, models.Plant{
			APIID:          id,
			CommonName:     name,
			ScientificName: stringList(rec.Get("scientific_name")),
			Cycle:          rec.Get("cycle").String(),
			Watering:       rec.Get("watering").String(),
			Sunlight:       stringList(rec.Get("sunlight")),
			ImageURL:       SelectImage(rec),
		})
		return true
	})
	return plants, nil
}

// SelectImage picks the medium image, then the original one, then the
// local placeholder.
func SelectImage(rec gjson.Result) string {
	for _, path := range []string{"default_image.medium_url", "default_image.original_url"} {
		if v := rec.Get(path).String(); v != "" {
			return v
		}
	}
	return models.DefaultPlantImage
}

// stringList accepts either a JSON array or a single string.
func stringList(r gjson.Result) pq.StringArray {
	out := pq.StringArray{}
	switch {
	case r.IsArray():
		for _, v := range r.Array() {
			if s := v.String(); s != "" {
				out = append(out, s)
			}
		}
	case r.Type == gjson.String && r.String() != "":
		out = append(out, r.String())
	}
	return out
}
