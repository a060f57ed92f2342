package models

import (
	"encoding/json"
	"testing"

	"gorm.io/datatypes"
)

func TestListingMarshalJSON(t *testing.T) {
	listing := Listing{
		ID:          3,
		VehicleType: "car",
		Model:       "Corolla",
		Condition:   "used",
		Year:        2020,
		Price:       20000,
		Status:      StatusActive,
		Views:       12,
		Images:      `["https://res.cloudinary.com/demo/a.jpg","https://res.cloudinary.com/demo/b.jpg"]`,
		ViewerIDs:   datatypes.JSON(`[4,9,11]`),
	}

	raw, err := json.Marshal(&listing)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	images, ok := out["images"].([]interface{})
	if !ok || len(images) != 2 {
		t.Errorf("images = %v, want 2-element array", out["images"])
	}
	if out["uniqueViewers"] != float64(3) {
		t.Errorf("uniqueViewers = %v, want 3", out["uniqueViewers"])
	}
	if _, leaked := out["viewerIDs"]; leaked {
		t.Error("raw viewer set must not appear in JSON")
	}
	if _, present := out["user"]; present {
		t.Error("user must be omitted when not preloaded")
	}
}

func TestListingMarshalJSONEmptyImages(t *testing.T) {
	listing := Listing{ID: 1, Status: StatusPending}

	raw, err := json.Marshal(&listing)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	images, ok := out["images"].([]interface{})
	if !ok || len(images) != 0 {
		t.Errorf("images = %v, want empty array, never null", out["images"])
	}
}
