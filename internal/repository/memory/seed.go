package memory

import "github.com/fairway/competitions/internal/domain"

var seedCountries = []domain.Country{
	{Code: "ES", NameEN: "Spain", NameES: "España"},
	{Code: "PT", NameEN: "Portugal", NameES: "Portugal"},
	{Code: "FR", NameEN: "France", NameES: "Francia"},
	{Code: "AD", NameEN: "Andorra", NameES: "Andorra"},
	{Code: "IT", NameEN: "Italy", NameES: "Italia"},
	{Code: "CH", NameEN: "Switzerland", NameES: "Suiza"},
	{Code: "DE", NameEN: "Germany", NameES: "Alemania"},
	{Code: "BE", NameEN: "Belgium", NameES: "Bélgica"},
	{Code: "LU", NameEN: "Luxembourg", NameES: "Luxemburgo"},
	{Code: "NL", NameEN: "Netherlands", NameES: "Países Bajos"},
	{Code: "AT", NameEN: "Austria", NameES: "Austria"},
	{Code: "GB", NameEN: "United Kingdom", NameES: "Reino Unido"},
	{Code: "IE", NameEN: "Ireland", NameES: "Irlanda"},
	{Code: "MA", NameEN: "Morocco", NameES: "Marruecos"},
}

var seedBorders = [][2]domain.CountryCode{
	{"ES", "PT"}, {"ES", "FR"}, {"ES", "AD"}, {"ES", "MA"},
	{"FR", "AD"}, {"FR", "IT"}, {"FR", "CH"}, {"FR", "DE"}, {"FR", "BE"}, {"FR", "LU"},
	{"IT", "CH"}, {"IT", "AT"}, {"CH", "DE"}, {"CH", "AT"},
	{"DE", "BE"}, {"DE", "LU"}, {"DE", "NL"}, {"DE", "AT"},
	{"BE", "LU"}, {"BE", "NL"}, {"GB", "IE"},
}

// SeedCountries loads the same countries and borders as the database seed migration.
func (s *Store) SeedCountries() {
	for _, c := range seedCountries {
		s.AddCountry(c.Code, c.NameEN, c.NameES)
	}
	for _, pair := range seedBorders {
		s.AddAdjacency(pair[0], pair[1])
	}
}
