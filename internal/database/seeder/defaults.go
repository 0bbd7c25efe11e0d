package seeder

// Defaults returns the bootstrap seeders in dependency order. surveyPath may
// be empty to load the embedded sample file.
func Defaults(surveyPath string) []Seeder {
	return []Seeder{
		OperatingSystemsSeeder{},
		SurveySeeder{Path: surveyPath},
		DemoUsersSeeder{},
	}
}
