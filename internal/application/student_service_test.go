package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdash/service-fleet/internal/domain"
)

func newStudentService() (*StudentService, *fakeStudentRepo) {
	repo := newFakeStudentRepo()
	return NewStudentService(repo, testLogger()), repo
}

func TestCreateStudent(t *testing.T) {
	svc, repo := newStudentService()

	dto, err := svc.CreateStudent(context.Background(), CreateStudentRequest{
		RollNumber: "21BCS001",
		Name:       "Gurpreet Kaur",
		Stream:     "CSE",
		Address:    "Ranjit Avenue",
		MobileNo:   "9876543210",
		Email:      "gurpreet@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "21BCS001", dto.RollNumber)
	assert.Equal(t, "Gurpreet Kaur", dto.Name)

	_, err = repo.FindByID(context.Background(), dto.ID)
	assert.NoError(t, err)
}

func TestCreateStudent_DuplicateRollNumber(t *testing.T) {
	svc, _ := newStudentService()

	_, err := svc.CreateStudent(context.Background(), CreateStudentRequest{RollNumber: "21BCS001", Name: "Gurpreet Kaur"})
	require.NoError(t, err)

	_, err = svc.CreateStudent(context.Background(), CreateStudentRequest{RollNumber: "21BCS001", Name: "Someone Else"})
	assert.True(t, domain.IsConflict(err))
}

func TestListStudents_Search(t *testing.T) {
	svc, _ := newStudentService()

	for _, st := range []CreateStudentRequest{
		{RollNumber: "21BCS001", Name: "Gurpreet Kaur", Stream: "CSE"},
		{RollNumber: "21ECE014", Name: "Armaan Singh", Stream: "ECE"},
	} {
		_, err := svc.CreateStudent(context.Background(), st)
		require.NoError(t, err)
	}

	page, err := svc.ListStudents(context.Background(), 1, 20, "gurpreet")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "21BCS001", page.Items[0].RollNumber)

	page, err = svc.ListStudents(context.Background(), 1, 20, "21ece")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Armaan Singh", page.Items[0].Name)

	page, err = svc.ListStudents(context.Background(), 1, 20, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)
}

func TestUpdateStudent(t *testing.T) {
	svc, _ := newStudentService()

	created, err := svc.CreateStudent(context.Background(), CreateStudentRequest{RollNumber: "21BCS001", Name: "Gurpreet Kaur"})
	require.NoError(t, err)

	updated, err := svc.UpdateStudent(context.Background(), created.ID, UpdateStudentRequest{
		RollNumber: "21BCS001",
		Name:       "Gurpreet K.",
		Stream:     "CSE",
	})
	require.NoError(t, err)
	assert.Equal(t, "Gurpreet K.", updated.Name)
	assert.Equal(t, "CSE", updated.Stream)

	_, err = svc.UpdateStudent(context.Background(), uuid.New(), UpdateStudentRequest{RollNumber: "x", Name: "y"})
	assert.True(t, domain.IsNotFound(err))
}

func TestUpdateStudent_RollNumberConflict(t *testing.T) {
	svc, _ := newStudentService()

	_, err := svc.CreateStudent(context.Background(), CreateStudentRequest{RollNumber: "21BCS001", Name: "Gurpreet Kaur"})
	require.NoError(t, err)
	other, err := svc.CreateStudent(context.Background(), CreateStudentRequest{RollNumber: "21ECE014", Name: "Armaan Singh"})
	require.NoError(t, err)

	_, err = svc.UpdateStudent(context.Background(), other.ID, UpdateStudentRequest{RollNumber: "21BCS001", Name: "Armaan Singh"})
	assert.True(t, domain.IsConflict(err))
}

func TestDeleteStudent(t *testing.T) {
	svc, repo := newStudentService()

	created, err := svc.CreateStudent(context.Background(), CreateStudentRequest{RollNumber: "21BCS001", Name: "Gurpreet Kaur"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStudent(context.Background(), created.ID))
	_, err = repo.FindByID(context.Background(), created.ID)
	assert.True(t, domain.IsNotFound(err))

	err = svc.DeleteStudent(context.Background(), uuid.New())
	assert.True(t, domain.IsNotFound(err))
}
