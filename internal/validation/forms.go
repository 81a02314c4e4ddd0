package validation

import (
	"strings"

	"github.com/jonathan/trade-connect/internal/form"
)

// Provinces are the selectable province codes of the registration form.
var Provinces = []string{
	"aceh", "sumut", "sumbar", "riau", "jambi", "sumsel", "bengkulu",
	"lampung", "jakarta", "jabar", "jateng", "jogja", "jatim", "bali",
}

// Categories are the product catalog categories.
var Categories = []string{
	"electronics", "clothing", "food", "furniture", "beauty", "sports", "automotive", "other",
}

var (
	loginRules = NewRules([]Field{
		{
			Name: "email", Tags: "notblank,email_format",
			Messages: map[string]string{"notblank": "Email is required", "email_format": "Email is invalid"},
		},
		{
			Name: "password", Tags: "notblank",
			Messages: map[string]string{"notblank": "Password is required"},
		},
	})

	registrationRules = NewRules([]Field{
		{
			Name: "accountType", Tags: "oneof=supplier buyer",
			Fallback: "Account type must be supplier or buyer",
		},
		{
			Name: "province", Tags: "notblank,oneof=" + strings.Join(Provinces, " "),
			Messages: map[string]string{"notblank": "Province is required", "oneof": "Province is invalid"},
		},
		{
			Name: "email", Tags: "notblank,email_format",
			Messages: map[string]string{"notblank": "Email is required", "email_format": "Email is invalid"},
		},
		{
			Name: "password", Tags: "notblank,min=8",
			Messages: map[string]string{"notblank": "Password is required", "min": "Password must be at least 8 characters"},
		},
		{
			Name: "repeatPassword", Tags: "notblank",
			Messages: map[string]string{"notblank": "Please confirm your password"},
		},
		{
			Name: "company", Tags: "notblank",
			Messages: map[string]string{"notblank": "Company name is required"},
		},
		{
			Name: "picName", Tags: "notblank",
			Messages: map[string]string{"notblank": "PIC name is required"},
		},
		{
			Name: "phone", Tags: "notblank,phone_digits",
			Messages: map[string]string{"notblank": "Phone number is required", "phone_digits": "Invalid phone number"},
		},
	}, passwordsMatch)

	productRules = NewRules([]Field{
		{
			Name: "name", Tags: "notblank",
			Messages: map[string]string{"notblank": "Product name is required"},
		},
		{
			Name: "category", Tags: "notblank,oneof=" + strings.Join(Categories, " "),
			Messages: map[string]string{"notblank": "Category is required", "oneof": "Category is invalid"},
		},
		{
			Name: "price", Tags: "notblank,positive_number",
			Messages: map[string]string{"notblank": "Price is required", "positive_number": "Price must be a positive number"},
		},
		{
			Name: "quantity", Tags: "notblank,nonnegative_number",
			Messages: map[string]string{"notblank": "Quantity is required", "nonnegative_number": "Quantity must be a non-negative number"},
		},
		{
			Name: "description", Tags: "notblank",
			Messages: map[string]string{"notblank": "Description is required"},
		},
	})
)

func passwordsMatch(v form.Values) (string, string) {
	if v.String("repeatPassword") != "" && v.String("password") != v.String("repeatPassword") {
		return "repeatPassword", "Passwords do not match"
	}
	return "", ""
}

// Login validates the login form.
func Login(v form.Values) form.Errors { return loginRules.Validate(v) }

// Registration validates the registration form.
func Registration(v form.Values) form.Errors { return registrationRules.Validate(v) }

// Product validates the product create/edit form.
func Product(v form.Values) form.Errors { return productRules.Validate(v) }

// LoginInitial is the empty login form.
func LoginInitial() form.Values {
	return form.Values{"email": form.Text(""), "password": form.Text("")}
}

// RegistrationInitial is the empty registration form. Supplier is the
// default account type.
func RegistrationInitial() form.Values {
	return form.Values{
		"accountType":    form.Text("supplier"),
		"province":       form.Text(""),
		"email":          form.Text(""),
		"password":       form.Text(""),
		"repeatPassword": form.Text(""),
		"company":        form.Text(""),
		"picName":        form.Text(""),
		"phone":          form.Text(""),
	}
}

// ProductInitial is the empty product form.
func ProductInitial() form.Values {
	return form.Values{
		"name":        form.Text(""),
		"category":    form.Text(""),
		"price":       form.Number(""),
		"quantity":    form.Number(""),
		"description": form.Text(""),
	}
}
