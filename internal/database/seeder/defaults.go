package seeder

const (
	DemoEmployerEmail  = "employer@talentmatch.local"
	DemoCandidateEmail = "candidate@talentmatch.local"
	DemoPassword       = "talentmatch123"
)

func Defaults() []Seeder {
	return []Seeder{
		UsersSeeder{Password: DemoPassword},
		JobsSeeder{EmployerEmail: DemoEmployerEmail},
	}
}
