package forms

import (
	"net/url"
	"strings"
	"testing"

	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSignup() SignupForm {
	return SignupForm{
		Username:  "alice",
		FirstName: "A",
		LastName:  "B",
		Email:     "a@x.com",
		Password:  "secret1",
	}
}

func TestValidate_SignupDefaultsImage(t *testing.T) {
	f := validSignup()
	errs := Validate(&f)
	require.True(t, errs.Valid(), "unexpected errors: %v", errs)
	assert.Equal(t, models.DefaultProfileImage, f.ImageURL)
}

func TestValidate_SignupKeepsImage(t *testing.T) {
	f := validSignup()
	f.ImageURL = "https://example.com/me.png"
	require.True(t, Validate(&f).Valid())
	assert.Equal(t, "https://example.com/me.png", f.ImageURL)
}

func TestValidate_SignupReportsAllFields(t *testing.T) {
	f := SignupForm{
		Username: strings.Repeat("u", 31),
		Email:    "not-an-email",
		Password: "12345",
		ImageURL: "nope",
	}
	errs := Validate(&f)

	assert.Equal(t, "Field cannot be longer than 30 characters.", errs.Get("username"))
	assert.Equal(t, "This field is required.", errs.Get("first_name"))
	assert.Equal(t, "This field is required.", errs.Get("last_name"))
	assert.Equal(t, "Invalid email address.", errs.Get("email"))
	assert.Equal(t, "Field must be at least 6 characters long.", errs.Get("password"))
	assert.Equal(t, "Invalid URL.", errs.Get("image_url"))
	assert.Empty(t, f.ImageURL, "defaults must not apply to an invalid form")
}

func TestValidate_Login(t *testing.T) {
	errs := Validate(&LoginForm{})
	assert.Len(t, errs, 2)

	assert.True(t, Validate(&LoginForm{Username: "alice", Password: "x"}).Valid())
}

func TestValidate_CafeDefaultsAndCity(t *testing.T) {
	f := CafeForm{Name: "Leaf", Address: "1 Main St", CityCode: "nyc"}
	errs := Validate(&f)
	require.True(t, errs.Valid())
	assert.Equal(t, models.DefaultCafeImage, f.ImageURL)

	f.CheckCity([]string{"sf", "berk"}, errs)
	assert.Equal(t, "Not a valid choice.", errs.Get("city_code"))
}

func TestValidate_CafeMissingCity(t *testing.T) {
	f := CafeForm{Name: "Leaf", Address: "1 Main St"}
	errs := Validate(&f)
	f.CheckCity([]string{"sf"}, errs)
	assert.Equal(t, []string{"This field is required."}, errs["city_code"])
}

func TestValidate_PlantSearch(t *testing.T) {
	assert.Equal(t, "This field is required.", Validate(&PlantSearchForm{}).Get("term"))
	assert.NotEmpty(t, Validate(&PlantSearchForm{Term: strings.Repeat("x", 101)}).Get("term"))
	assert.True(t, Validate(&PlantSearchForm{Term: "fern"}).Valid())
}

func TestDecode(t *testing.T) {
	values := url.Values{
		"username":   {"  alice "},
		"password":   {" pass word "},
		"first_name": {"A"},
		"unknown":    {"ignored"},
	}
	var f SignupForm
	Decode(values, &f)

	assert.Equal(t, "alice", f.Username)
	assert.Equal(t, " pass word ", f.Password)
	assert.Equal(t, "A", f.FirstName)
	assert.Empty(t, f.LastName)
}

func TestProfileForm_RoundTrip(t *testing.T) {
	u := &models.User{FirstName: "A", LastName: "B", Email: "a@x.com", ImageURL: "/img"}
	f := ProfileFormFor(u)
	f.LastName = "C"
	f.Apply(u)
	assert.Equal(t, "A C", u.FullName())
}

func TestValidate_DefaultImagesSurviveResubmission(t *testing.T) {
	pf := ProfileFormFor(&models.User{FirstName: "A", LastName: "B", Email: "a@x.com", ImageURL: models.DefaultProfileImage})
	assert.Empty(t, pf.ImageURL)
	assert.True(t, Validate(&pf).Valid())
	assert.Equal(t, models.DefaultProfileImage, pf.ImageURL)

	cf := CafeFormFor(&models.Cafe{Name: "Leaf", Address: "x", CityCode: "berk", ImageURL: models.DefaultCafeImage})
	assert.Empty(t, cf.ImageURL)

	cf.ImageURL = models.DefaultCafeImage
	assert.True(t, Validate(&cf).Valid())

	sf := SignupForm{Username: "alice", FirstName: "A", LastName: "B", Email: "a@x.com", Password: "secret1"}
	require.True(t, Validate(&sf).Valid())
	assert.True(t, Validate(&sf).Valid(), "defaulted form must validate again")
}

func TestValidate_ImageRejectsOtherRelativePaths(t *testing.T) {
	f := ProfileEditForm{FirstName: "A", LastName: "B", Email: "a@x.com", ImageURL: "/etc/passwd"}
	assert.Equal(t, "Invalid URL.", Validate(&f).Get("image_url"))
}

func TestStripDefaults(t *testing.T) {
	f := CafeForm{ImageURL: models.DefaultCafeImage}
	StripDefaults(&f)
	assert.Empty(t, f.ImageURL)

	f.ImageURL = "https://example.com/a.jpg"
	StripDefaults(&f)
	assert.Equal(t, "https://example.com/a.jpg", f.ImageURL)
}
