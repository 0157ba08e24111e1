package domain

import (
	"slices"
	"testing"
)

func TestValidateEmptyDataReportsEveryCheck(t *testing.T) {
	res := Validate(AddressData{})

	want := []string{
		MsgFamilyMemberRequired,
		MsgPackageTypeRequired,
		MsgAddressesRequired,
		MsgOriginRequired,
		MsgDestinationRequired,
		MsgOriginCoordinates,
		MsgDestinationCoordinates,
	}

	if res.IsValid {
		t.Fatalf("expected invalid result")
	}
	if !slices.Equal(res.Errors, want) {
		t.Fatalf("unexpected errors:\n got %q\nwant %q", res.Errors, want)
	}
}

func TestValidateCompleteData(t *testing.T) {
	data := AddressData{
		FamilyMemberID: "fm-1",
		PackageType:    "standard",
		Addresses: []RoutePoint{
			{ID: "a", Role: RoleFrom, Address: "Fountain Square", Coordinate: &Coordinates{Lat: 40.3777, Lng: 49.8920}},
			{ID: "b", Role: RoleTo, Address: "Ganjlik Mall", Coordinate: &Coordinates{Lat: 40.4093, Lng: 49.8671}},
		},
	}

	res := Validate(data)
	if !res.IsValid {
		t.Fatalf("expected valid, got errors %q", res.Errors)
	}
	if res.Errors == nil || len(res.Errors) != 0 {
		t.Fatalf("expected empty non-nil errors, got %#v", res.Errors)
	}
}

func TestValidateChecksAreIndependent(t *testing.T) {
	// Blank addresses and missing coordinates are reported separately.
	data := AddressData{
		FamilyMemberID: "  ",
		PackageType:    "standard",
		Addresses: []RoutePoint{
			{ID: "a", Role: RoleFrom, Address: " "},
			{ID: "b", Role: RoleTo, Address: "Ganjlik Mall", Coordinate: &Coordinates{Lat: 40.4093, Lng: 49.8671}},
		},
	}

	res := Validate(data)
	want := []string{MsgFamilyMemberRequired, MsgOriginRequired, MsgOriginCoordinates}
	if !slices.Equal(res.Errors, want) {
		t.Fatalf("unexpected errors:\n got %q\nwant %q", res.Errors, want)
	}
}

func TestValidateUsesFirstPointOfEachRole(t *testing.T) {
	data := AddressData{
		FamilyMemberID: "fm-1",
		PackageType:    "standard",
		Addresses: []RoutePoint{
			{ID: "a", Role: RoleFrom, Address: "first"},
			{ID: "b", Role: RoleFrom, Address: "second", Coordinate: &Coordinates{Lat: 1, Lng: 1}},
			{ID: "c", Role: RoleTo, Address: "to", Coordinate: &Coordinates{Lat: 2, Lng: 2}},
		},
	}

	res := Validate(data)
	if !slices.Equal(res.Errors, []string{MsgOriginCoordinates}) {
		t.Fatalf("unexpected errors %q", res.Errors)
	}
}
