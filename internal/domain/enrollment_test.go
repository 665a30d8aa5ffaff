package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEnrollment_Constructors(t *testing.T) {
	competitionID, userID := uuid.New(), uuid.New()

	e, ev, err := RequestEnrollment(competitionID, userID, testNow)
	require.NoError(t, err)
	assert.Equal(t, EnrollmentRequested, e.Status)
	assert.IsType(t, EnrollmentRequestedEvent{}, ev)

	invited, err := InviteEnrollment(competitionID, userID, testNow)
	require.NoError(t, err)
	assert.Equal(t, EnrollmentInvited, invited.Status)

	h := 12.4
	direct, ev, err := DirectEnroll(competitionID, userID, &h, testNow)
	require.NoError(t, err)
	assert.Equal(t, EnrollmentApproved, direct.Status)
	assert.Equal(t, &h, ev.(EnrollmentDirectlyEnrolledEvent).CustomHandicap)

	bad := 60.0
	_, _, err = DirectEnroll(competitionID, userID, &bad, testNow)
	assert.ErrorIs(t, err, ErrInvalidHandicap)

	_, _, err = RequestEnrollment(uuid.Nil, userID, testNow)
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestEnrollment_Transitions(t *testing.T) {
	newRequested := func(t *testing.T) *Enrollment {
		e, _, err := RequestEnrollment(uuid.New(), uuid.New(), testNow)
		require.NoError(t, err)
		return e
	}

	t.Run("approve then withdraw", func(t *testing.T) {
		e := newRequested(t)
		_, err := e.Approve(testNow)
		require.NoError(t, err)

		reason := "  injury "
		ev, err := e.Withdraw(&reason, testNow)
		require.NoError(t, err)
		assert.Equal(t, "injury", *ev.(EnrollmentWithdrawnEvent).Reason)
		assert.Equal(t, EnrollmentWithdrawn, e.Status)
	})

	t.Run("cancel from approved fails", func(t *testing.T) {
		e := newRequested(t)
		_, err := e.Approve(testNow)
		require.NoError(t, err)
		_, err = e.Cancel(nil, testNow)
		assert.ErrorIs(t, err, ErrEnrollmentState)
		assert.Equal(t, EnrollmentApproved, e.Status)
	})

	t.Run("withdraw from pending fails", func(t *testing.T) {
		e := newRequested(t)
		_, err := e.Withdraw(nil, testNow)
		assert.ErrorIs(t, err, ErrEnrollmentState)
	})

	t.Run("cancel a pending request", func(t *testing.T) {
		e := newRequested(t)
		blank := "   "
		ev, err := e.Cancel(&blank, testNow)
		require.NoError(t, err)
		assert.Nil(t, ev.(EnrollmentCancelledEvent).Reason)
	})

	t.Run("reject is terminal", func(t *testing.T) {
		e := newRequested(t)
		require.NoError(t, e.Reject(testNow))
		_, err := e.Approve(testNow)
		assert.ErrorIs(t, err, ErrEnrollmentState)
	})

	t.Run("team assignment requires approval", func(t *testing.T) {
		e := newRequested(t)
		assert.ErrorIs(t, e.AssignToTeam("1", testNow), ErrEnrollmentState)

		_, err := e.Approve(testNow)
		require.NoError(t, err)
		assert.ErrorIs(t, e.AssignToTeam("  ", testNow), ErrInvalidTeamID)
		require.NoError(t, e.AssignToTeam(" 2 ", testNow))
		assert.Equal(t, "2", *e.TeamID)
	})

	t.Run("custom handicap range", func(t *testing.T) {
		e := newRequested(t)
		assert.ErrorIs(t, e.SetCustomHandicap(-10.5, testNow), ErrInvalidHandicap)
		require.NoError(t, e.SetCustomHandicap(-10, testNow))
		require.NoError(t, e.SetCustomHandicap(54, testNow))
		assert.Equal(t, 54.0, *e.CustomHandicap)
	})
}

func TestEnrollmentStatus_Predicates(t *testing.T) {
	assert.True(t, EnrollmentRequested.IsPending())
	assert.True(t, EnrollmentInvited.IsPending())
	assert.False(t, EnrollmentApproved.IsPending())
	assert.True(t, EnrollmentApproved.IsActive())
	assert.False(t, EnrollmentWithdrawn.IsActive())

	s, err := ParseEnrollmentStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, EnrollmentApproved, s)
	_, err = ParseEnrollmentStatus("waitlisted")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestEnrollment_TransitionsStayOnTable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.SampledFrom([]EnrollmentStatus{EnrollmentRequested, EnrollmentInvited}).Draw(t, "initial")
		e := &Enrollment{ID: uuid.New(), Status: initial}
		ops := []func() error{
			func() error { _, err := e.Approve(testNow); return err },
			func() error { return e.Reject(testNow) },
			func() error { _, err := e.Cancel(nil, testNow); return err },
			func() error { _, err := e.Withdraw(nil, testNow); return err },
		}

		steps := rapid.IntRange(1, 20).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			before := e.Status
			if err := ops[rapid.IntRange(0, len(ops)-1).Draw(t, "op")](); err != nil {
				if e.Status != before {
					t.Fatalf("failed call changed status %s -> %s", before, e.Status)
				}
				continue
			}
			if !CanTransitionEnrollment(before, e.Status) {
				t.Fatalf("illegal edge %s -> %s", before, e.Status)
			}
		}
	})
}
