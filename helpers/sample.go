package helpers

import (
	"time"

	"github.com/spektr-org/scholar/engine"
)

// SampleStudents returns the built-in three-student roster used when no
// roster file is given. Each call returns a fresh copy.
func SampleStudents() []engine.Student {
	return []engine.Student{
		{
			ID:             1,
			Name:           "Alice Johnson",
			Age:            20,
			Major:          "Computer Science",
			GPA:            3.8,
			EnrollmentDate: day(2022, time.September, 1),
			Email:          "alice.j@university.edu",
			Address:        &engine.Address{City: "Seattle", State: "WA", ZipCode: "98101"},
			Courses: []engine.Course{
				{Code: "CS101", Name: "Intro to Programming", Credits: 3, Grade: 3.7, Semester: "Fall 2022", Instructor: "Dr. Smith"},
				{Code: "MATH201", Name: "Calculus II", Credits: 4, Grade: 3.9, Semester: "Fall 2022", Instructor: "Prof. Johnson"},
			},
		},
		{
			ID:             2,
			Name:           "Bob Wilson",
			Age:            22,
			Major:          "Mathematics",
			GPA:            3.2,
			EnrollmentDate: day(2021, time.September, 1),
			Email:          "bob.w@university.edu",
			Address:        &engine.Address{City: "Portland", State: "OR", ZipCode: "97201"},
			Courses: []engine.Course{
				{Code: "MATH301", Name: "Linear Algebra", Credits: 3, Grade: 3.3, Semester: "Spring 2023", Instructor: "Dr. Brown"},
				{Code: "STAT101", Name: "Statistics", Credits: 3, Grade: 3.1, Semester: "Spring 2023", Instructor: "Prof. Davis"},
			},
		},
		{
			ID:             3,
			Name:           "Carol Davis",
			Age:            19,
			Major:          "Computer Science",
			GPA:            3.9,
			EnrollmentDate: day(2023, time.September, 1),
			Email:          "carol.d@university.edu",
			Address:        &engine.Address{City: "San Francisco", State: "CA", ZipCode: "94101"},
			Courses: []engine.Course{
				{Code: "CS102", Name: "Data Structures", Credits: 4, Grade: 4.0, Semester: "Fall 2023", Instructor: "Dr. Smith"},
				{Code: "CS201", Name: "Algorithms", Credits: 3, Grade: 3.8, Semester: "Fall 2023", Instructor: "Prof. Lee"},
			},
		},
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
