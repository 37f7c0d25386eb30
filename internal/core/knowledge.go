package core

// Knowledge base rows. The tables are read-only reference data seeded by
// migrations; all fields are display-oriented.

type Agency struct {
	Key      string
	Name     string
	Head     string
	Position string
	Website  string
	Hotline  string
	Phone    string
	Email    string
	Address  string
}

type RegionalOffice struct {
	Region   string
	Office   string
	Location string
	Contact  string
	Website  string
}

type ProvincialOffice struct {
	Province string
	Head     string
	Position string
	Office   string
	Address  string
	Phone    string
	Website  string
	Region   string
}

type Crop struct {
	Name          string
	Aliases       []string
	Tagalog       string
	SeasonWet     string
	SeasonDry     string
	Temperature   string
	Water         string
	SoilType      string
	PHRange       string
	Regions       string
	AverageYield  string
	Pests         string
	Diseases      string
	BestPractices []string
	Varieties     string
	HarvestPeriod string
	SourceURL     string
}

type Program struct {
	Name          string
	Description   string
	Beneficiaries string
	SourceURL     string
}

type FinancingOption struct {
	Name    string
	Type    string
	Website string
	Phone   string
}

type Pest struct {
	Name           string
	Crops          []string
	Damage         string
	Identification string
	Control        []string
	SourceURL      string
}

type Season struct {
	Name        string
	Months      string
	Temperature string
	Rainfall    string
	Crops       string
	Activities  []string
	SourceURL   string
}
