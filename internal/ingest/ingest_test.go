package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullWeek = `[[1,1,1,0,1,1,1,1],[1,1,1,0,1,1,1,1],[1,1,1,0,1,1,1,1],[1,1,1,0,1,1,1,1],[1,1,1,0,1,1,1,1]]`

func sampleTables() Tables {
	teachers := strings.NewReader(
		"name,title,availability,preferences\n" +
			"alice,Professor,\"" + fullWeek + "\",\"" + fullWeek + "\"\n" +
			"bob,Lecturer,\"" + fullWeek + "\",\"" + fullWeek + "\"\n",
	)
	rooms := strings.NewReader(
		"name,capacity,facilities\n" +
			"r101,40,projector\n" +
			"r102,20,\n",
	)
	courses := strings.NewReader(
		"name,code,hours,students,possible_teachers,is_elective,course_year\n" +
			"algorithms,CS301,3,35,alice;bob,0,2\n" +
			"seminar,,2,10,alice,1,2\n",
	)
	return Tables{Courses: courses, Rooms: rooms, Teachers: teachers}
}

func TestNormalizeHappyPath(t *testing.T) {
	ds, err := Normalize(sampleTables())
	require.NoError(t, err)

	require.Len(t, ds.TeacherOrder, 2)
	require.Len(t, ds.RoomOrder, 2)
	require.Len(t, ds.CourseOrder, 2)

	course := ds.Courses["algorithms"]
	require.NotNil(t, course)
	assert.Equal(t, "CS301", course.Code)
	assert.True(t, course.EligibleTeachers["alice"])
	assert.True(t, course.EligibleTeachers["bob"])
	assert.True(t, course.IsMandatory())

	seminar := ds.Courses["seminar"]
	require.NotNil(t, seminar)
	assert.Equal(t, "seminar", seminar.Code) // defaults to Name when the code value is empty
	assert.True(t, seminar.IsElective)
}

func TestNormalizeRejectsUnknownTeacherReference(t *testing.T) {
	teachers := strings.NewReader("name,title,availability,preferences\n" +
		"alice,Professor,\"" + fullWeek + "\",\"" + fullWeek + "\"\n")
	rooms := strings.NewReader("name,capacity,facilities\nr101,40,\n")
	courses := strings.NewReader("name,code,hours,students,possible_teachers,is_elective,course_year\n" +
		"algorithms,,3,35,ghost,0,2\n")

	_, err := Normalize(Tables{Courses: courses, Rooms: rooms, Teachers: teachers})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestNormalizeRejectsDuplicateCourseName(t *testing.T) {
	teachers := strings.NewReader("name,title,availability,preferences\n" +
		"alice,Professor,\"" + fullWeek + "\",\"" + fullWeek + "\"\n")
	rooms := strings.NewReader("name,capacity,facilities\nr101,40,\n")
	courses := strings.NewReader("name,code,hours,students,possible_teachers,is_elective,course_year\n" +
		"algorithms,,3,35,alice,0,2\n" +
		"algorithms,,3,35,alice,0,2\n")

	_, err := Normalize(Tables{Courses: courses, Rooms: rooms, Teachers: teachers})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNormalizeAggregatesMultipleRowErrors(t *testing.T) {
	teachers := strings.NewReader("name,title,availability,preferences\n" +
		"alice,Professor,\"" + fullWeek + "\",\"" + fullWeek + "\"\n")
	rooms := strings.NewReader("name,capacity,facilities\nr101,40,\n")
	courses := strings.NewReader("name,code,hours,students,possible_teachers,is_elective,course_year\n" +
		"badcourse1,,3,35,ghost1,0,2\n" +
		"badcourse2,,3,35,ghost2,0,2\n")

	_, err := Normalize(Tables{Courses: courses, Rooms: rooms, Teachers: teachers})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost1")
	assert.Contains(t, err.Error(), "ghost2")
}
