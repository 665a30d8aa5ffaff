package domain

type EnrollmentStatusStat struct {
	Status EnrollmentStatus
	Count  int
}

type CompetitionStatusStat struct {
	Status CompetitionStatus
	Count  int
}
