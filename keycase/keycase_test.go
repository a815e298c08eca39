package keycase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnakeKey(t *testing.T) {
	cases := map[string]string{
		"studentId":       "student_id",
		"parentName":      "parent_name",
		"targetStudentId": "target_student_id",
		"isPrivate":       "is_private",
		"name":            "name",
		"credit":          "credit",
		"fee":             "fee",
	}
	for in, want := range cases {
		assert.Equal(t, want, SnakeKey(in), "SnakeKey(%q)", in)
	}
}

func TestCamelKey(t *testing.T) {
	cases := map[string]string{
		"student_id":        "studentId",
		"parent_name":       "parentName",
		"target_student_id": "targetStudentId",
		"is_private":        "isPrivate",
		"name":              "name",
		"paid":              "paid",
	}
	for in, want := range cases {
		assert.Equal(t, want, CamelKey(in), "CamelKey(%q)", in)
	}
}

func TestBoundaryFreeKeysUnchanged(t *testing.T) {
	// Already-lowercase keys with no boundary must pass through both
	// directions untouched; neither direction invents spurious underscores.
	for _, key := range []string{"id", "name", "grade", "credit", "status"} {
		assert.Equal(t, key, SnakeKey(key))
		assert.Equal(t, key, CamelKey(key))
	}
}

func TestToWireRecursion(t *testing.T) {
	in := map[string]interface{}{
		"parentName": "Rana",
		"items": []interface{}{
			map[string]interface{}{"name": "Sandwich", "unitPrice": 2.0},
		},
		"paymentMethod": "wallet",
		"total":         15.5,
		"isPrivate":     true,
		"note":          nil,
	}

	got := ToWire(in).(map[string]interface{})
	assert.Equal(t, "Rana", got["parent_name"])
	assert.Equal(t, "wallet", got["payment_method"])
	assert.Equal(t, 15.5, got["total"])
	assert.Equal(t, true, got["is_private"])
	assert.Nil(t, got["note"])

	items := got["items"].([]interface{})
	first := items[0].(map[string]interface{})
	assert.Equal(t, 2.0, first["unit_price"])
	// Array elements that are not objects stay untouched; object elements
	// get their keys rewritten but values left alone.
	assert.Equal(t, "Sandwich", first["name"])
}

func roundTrip(t *testing.T, doc string) {
	t.Helper()

	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(doc), &v))

	got := FromWire(ToWire(v))
	assert.Equal(t, v, got, "FromWire(ToWire(x)) must equal x for %s", doc)
}

func TestRoundTripEntityShapes(t *testing.T) {
	// One document per entity family, in client format.
	docs := map[string]string{
		"student": `{"id":"1001","name":"Kareem","grade":"KG1 A","fee":1200,
			"paid":800,"credit":20.5,"attendance":"Present","photo":""}`,
		"teacher": `{"name":"Sara","class":"KG2 B","email":"s@viola.edu",
			"password":"x","phone":"0790000000"}`,
		"order": `{"id":"1756-ab12","date":"2026-08-28 10:00:00","parentName":"Rana",
			"phone":"0790000001","studentDetails":"Kareem - KG1 A",
			"items":[{"name":"Sandwich","price":2,"type":"lunch"}],
			"total":2,"paymentMethod":"wallet","status":"Pending"}`,
		"notification": `{"id":"n1","date":"2026-08-28","sender":"Admin",
			"title":"Trip","body":"Friday","targetClass":"KG1 A",
			"targetStudentId":"","isPrivate":false}`,
		"schedule": `{"KG1 A":{"0":{"08:00":{"sub":"Math","teach":"Sara"}}}}`,
		"bus": `{"morning":[{"time":"06:30","loc":"Housing Bank Circle"}],
			"evening":[{"time":"14:00","loc":"Viola Academy"}]}`,
		"grades":   `{"1001":{"math":"95","science":"-"}}`,
		"homework": `{"id":"h1","class":"KG1 A","subject":"Math","dueDate":"2026-09-01","desc":"p. 12"}`,
		"shop": `{"summer":{"price":15,"desc":"Breathable cotton polo.","img":""},
			"winter":{"price":25,"desc":"Warm wool blazer.","img":""}}`,
		"site": `{"about":{"title":"Viola","desc":"...","quote":"q","author":"a","image":""},
			"features":[{"icon":"fa-star","title":"Care","desc":"..."}],
			"testimonials":[]}`,
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) { roundTrip(t, doc) })
	}
}

func TestClassLabelKeysSurviveRoundTrip(t *testing.T) {
	// Class labels used as map keys contain uppercase letters. They get
	// mangled on the wire ("KG1 A" -> "_k_g1 _a") but the reverse mapping
	// restores them exactly, so the round-trip property still holds.
	roundTrip(t, `{"KG1 A":{"0":{"8:00":{"sub":"Art","teach":"Huda"}}}}`)
}
