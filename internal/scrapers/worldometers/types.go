package worldometers

type Field string

const (
	LifeExpectancyBoth        Field = "Life Expectancy Both"
	LifeExpectancyFemale      Field = "Life Expectancy Female"
	LifeExpectancyMale        Field = "Life Expectancy Male"
	UrbanPopulationPercentage Field = "Urban Population Percentage"
	UrbanPopulationAbsolute   Field = "Urban Population Absolute"
	PopulationDensityField    Field = "Population Density"
)

// Fields is the column order of the demographics table.
var Fields = []Field{
	LifeExpectancyBoth,
	LifeExpectancyFemale,
	LifeExpectancyMale,
	UrbanPopulationPercentage,
	UrbanPopulationAbsolute,
	PopulationDensityField,
}

// Demographics is what could be read off a single country page, fields that
// were not found are absent from Values.
type Demographics struct {
	Country string
	Url     string
	Values  map[Field]float64
}
