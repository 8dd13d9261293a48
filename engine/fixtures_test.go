package engine

import "time"

// ============================================================================
// TEST FIXTURES
// ============================================================================

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// roster returns Alice, Bob and Carol with two courses each.
func roster() []Student {
	return []Student{
		{
			ID: 1, Name: "Alice Johnson", Age: 20, Major: "Computer Science",
			GPA: 3.8, EnrollmentDate: date(2022, time.September, 1),
			Email:   "alice.j@university.edu",
			Address: &Address{City: "Seattle", State: "WA", ZipCode: "98101"},
			Courses: []Course{
				{Code: "CS101", Name: "Intro to Programming", Credits: 3, Grade: 3.7, Semester: "Fall 2022", Instructor: "Dr. Smith"},
				{Code: "MATH201", Name: "Calculus II", Credits: 4, Grade: 3.9, Semester: "Fall 2022", Instructor: "Prof. Johnson"},
			},
		},
		{
			ID: 2, Name: "Bob Wilson", Age: 22, Major: "Mathematics",
			GPA: 3.2, EnrollmentDate: date(2021, time.September, 1),
			Email:   "bob.w@university.edu",
			Address: &Address{City: "Portland", State: "OR", ZipCode: "97201"},
			Courses: []Course{
				{Code: "MATH301", Name: "Linear Algebra", Credits: 3, Grade: 3.3, Semester: "Spring 2023", Instructor: "Dr. Brown"},
				{Code: "STAT101", Name: "Statistics", Credits: 3, Grade: 3.1, Semester: "Spring 2023", Instructor: "Prof. Davis"},
			},
		},
		{
			ID: 3, Name: "Carol Davis", Age: 19, Major: "Computer Science",
			GPA: 3.9, EnrollmentDate: date(2023, time.September, 1),
			Email:   "carol.d@university.edu",
			Address: &Address{City: "San Francisco", State: "CA", ZipCode: "94101"},
			Courses: []Course{
				{Code: "CS102", Name: "Data Structures", Credits: 4, Grade: 4.0, Semester: "Fall 2023", Instructor: "Dr. Smith"},
				{Code: "CS201", Name: "Algorithms", Credits: 3, Grade: 3.8, Semester: "Fall 2023", Instructor: "Prof. Lee"},
			},
		},
	}
}

// withGPAs builds students with ids 1..n, ages 18.. and the given GPAs.
func withGPAs(gpas ...float64) []Student {
	students := make([]Student, len(gpas))
	for i, g := range gpas {
		students[i] = Student{ID: i + 1, Age: 18 + i, GPA: g}
	}
	return students
}

func names(students []Student) []string {
	out := make([]string, len(students))
	for i, s := range students {
		out[i] = s.Name
	}
	return out
}
