package services

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/church-network-api/internal/access"
	apierrors "github.com/yukikurage/church-network-api/internal/errors"
	"github.com/yukikurage/church-network-api/internal/models"
	"github.com/yukikurage/church-network-api/internal/testutil"
	"gorm.io/gorm"
)

type ResourceServiceTestSuite struct {
	suite.Suite
	db   *gorm.DB
	hook *test.Hook
	h    *hierarchy
	res  *Resources
}

func (suite *ResourceServiceTestSuite) SetupTest() {
	logger, hook := test.NewNullLogger()
	suite.hook = hook
	suite.db = testutil.NewDB(suite.T())
	suite.h = newHierarchy(suite.T(), suite.db)
	suite.res = NewResources(suite.db, logger)
}

func (suite *ResourceServiceTestSuite) addMember(name string, orgID uint64) *models.Member {
	m, err := suite.res.Members.Create(ctx, suite.h.rootAdmin, MemberInput{
		Target: Target{OrganizationID: ptr(orgID)},
		Name:   name,
	})
	suite.Require().NoError(err)
	return m
}

func memberIDs(members []models.Member) []uint64 {
	ids := make([]uint64, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

func (suite *ResourceServiceTestSuite) TestList_RootSeesBranchRecordsSiblingDoesNot() {
	m := suite.addMember("Ruth", suite.h.branchB.ID)

	rootView, err := suite.res.Members.List(ctx, suite.h.rootAdmin, ListInput{})
	suite.Require().NoError(err)
	suite.Contains(memberIDs(rootView), m.ID)

	siblingView, err := suite.res.Members.List(ctx, suite.h.branchCAdmin, ListInput{})
	suite.Require().NoError(err)
	suite.NotContains(memberIDs(siblingView), m.ID)
}

func (suite *ResourceServiceTestSuite) TestList_BranchAdminOnlySeesHomeOrganization() {
	suite.addMember("Root member", suite.h.root.ID)
	suite.addMember("North member", suite.h.branchB.ID)
	suite.addMember("South member", suite.h.branchC.ID)

	// An explicit organization is ignored for branch admins.
	for _, explicit := range []*uint64{nil, ptr(suite.h.root.ID), ptr(suite.h.branchC.ID)} {
		members, err := suite.res.Members.List(ctx, suite.h.branchBAdmin, ListInput{OrganizationID: explicit})
		suite.Require().NoError(err)
		suite.Require().Len(members, 1)
		suite.Equal(suite.h.branchB.ID, members[0].OrganizationID)
	}
}

func (suite *ResourceServiceTestSuite) TestList_RootExcludesGrandchildren() {
	grandchild := &models.Organization{Name: "Too deep", ParentID: &suite.h.branchB.ID}
	suite.Require().NoError(suite.db.Create(grandchild).Error)
	hidden := &models.Member{Name: "Hidden"}
	hidden.SetOrganizationID(grandchild.ID)
	suite.Require().NoError(suite.db.Create(hidden).Error)

	visible := suite.addMember("Visible", suite.h.branchB.ID)

	members, err := suite.res.Members.List(ctx, suite.h.rootAdmin, ListInput{})
	suite.Require().NoError(err)
	suite.Equal([]uint64{visible.ID}, memberIDs(members))
}

func (suite *ResourceServiceTestSuite) TestList_RootExplicitOrganization() {
	suite.addMember("Root member", suite.h.root.ID)
	north := suite.addMember("North member", suite.h.branchB.ID)

	members, err := suite.res.Members.List(ctx, suite.h.rootAdmin, ListInput{OrganizationID: ptr(suite.h.branchB.ID)})
	suite.Require().NoError(err)
	suite.Equal([]uint64{north.ID}, memberIDs(members))

	_, err = suite.res.Members.List(ctx, suite.h.rootAdmin, ListInput{OrganizationID: ptr(suite.h.other.ID)})
	suite.ErrorIs(err, apierrors.ErrForbidden)
}

func (suite *ResourceServiceTestSuite) TestList_IsStable() {
	suite.addMember("C", suite.h.branchC.ID)
	suite.addMember("A", suite.h.root.ID)
	suite.addMember("B", suite.h.branchB.ID)

	first, err := suite.res.Members.List(ctx, suite.h.rootAdmin, ListInput{})
	suite.Require().NoError(err)
	second, err := suite.res.Members.List(ctx, suite.h.rootAdmin, ListInput{})
	suite.Require().NoError(err)

	suite.Equal(memberIDs(first), memberIDs(second))
	suite.IsIncreasing(memberIDs(first))
}

func (suite *ResourceServiceTestSuite) TestList_MissingIdentity() {
	_, err := suite.res.Members.List(ctx, access.Identity{}, ListInput{})
	suite.ErrorIs(err, apierrors.ErrMissingIdentity)
}

func (suite *ResourceServiceTestSuite) TestCreate_BranchAdminTargetIsPinned() {
	for _, requested := range []*uint64{nil, ptr(suite.h.root.ID), ptr(suite.h.branchC.ID), ptr(suite.h.other.ID)} {
		ev, err := suite.res.Events.Create(ctx, suite.h.branchBAdmin, EventInput{
			Target: Target{OrganizationID: requested},
			Title:  "Vigil",
			Date:   "2024-03-01",
		})
		suite.Require().NoError(err)
		suite.Equal(suite.h.branchB.ID, ev.OrganizationID)
	}
}

func (suite *ResourceServiceTestSuite) TestCreate_RootTargets() {
	ev, err := suite.res.Events.Create(ctx, suite.h.rootAdmin, EventInput{Title: "Service", Date: "2024-03-01"})
	suite.Require().NoError(err)
	suite.Equal(suite.h.root.ID, ev.OrganizationID)

	ev, err = suite.res.Events.Create(ctx, suite.h.rootAdmin, EventInput{
		Target: Target{OrganizationID: ptr(suite.h.branchC.ID)},
		Title:  "Service",
		Date:   "2024-03-01",
	})
	suite.Require().NoError(err)
	suite.Equal(suite.h.branchC.ID, ev.OrganizationID)

	_, err = suite.res.Events.Create(ctx, suite.h.rootAdmin, EventInput{
		Target: Target{OrganizationID: ptr(suite.h.other.ID)},
		Title:  "Service",
		Date:   "2024-03-01",
	})
	suite.ErrorIs(err, apierrors.ErrForbidden)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Event{}).Count(&count).Error)
	suite.Equal(int64(2), count)
	suite.NotEmpty(suite.hook.AllEntries())
	suite.Equal(logrus.WarnLevel, suite.hook.LastEntry().Level)
}

func (suite *ResourceServiceTestSuite) TestCreate_ValidationError() {
	_, err := suite.res.Donations.Create(ctx, suite.h.rootAdmin, DonationInput{Amount: amount("0"), Type: "gift"})
	suite.Require().ErrorIs(err, apierrors.ErrValidation)

	var verr *apierrors.ValidationError
	suite.Require().ErrorAs(err, &verr)
	suite.Equal("must not be zero", verr.Fields["amount"])
	suite.Equal("is required", verr.Fields["date"])
	suite.Contains(verr.Fields, "type")

	_, err = suite.res.Members.Create(ctx, suite.h.rootAdmin, MemberInput{})
	suite.ErrorIs(err, apierrors.ErrValidation)
}

func (suite *ResourceServiceTestSuite) TestCreate_ValidationBeforeTargetCheck() {
	_, err := suite.res.Projects.Create(ctx, suite.h.rootAdmin, ProjectInput{
		Target: Target{OrganizationID: ptr(suite.h.other.ID)},
	})
	suite.ErrorIs(err, apierrors.ErrValidation)
}

func (suite *ResourceServiceTestSuite) TestAttendance_RequiresVisibleEvent() {
	ev, err := suite.res.Events.Create(ctx, suite.h.branchBAdmin, EventInput{Title: "Vigil", Date: "2024-03-01"})
	suite.Require().NoError(err)

	count := 40
	rec, err := suite.res.Attendance.Create(ctx, suite.h.branchBAdmin, AttendanceInput{EventID: ev.ID, MemberCount: &count, Date: "2024-03-01"})
	suite.Require().NoError(err)
	suite.Equal(suite.h.branchB.ID, rec.OrganizationID)

	_, err = suite.res.Attendance.Create(ctx, suite.h.branchCAdmin, AttendanceInput{EventID: ev.ID, MemberCount: &count, Date: "2024-03-01"})
	suite.ErrorIs(err, ErrEventNotFound)

	_, err = suite.res.Attendance.Create(ctx, suite.h.rootAdmin, AttendanceInput{EventID: 9999, MemberCount: &count, Date: "2024-03-01"})
	suite.ErrorIs(err, apierrors.ErrNotFound)

	zero := 0
	_, err = suite.res.Attendance.Create(ctx, suite.h.rootAdmin, AttendanceInput{EventID: ev.ID, MemberCount: &zero, Date: "2024-03-02"})
	suite.NoError(err)

	records, err := suite.res.Attendance.List(ctx, suite.h.rootAdmin, ListInput{Filters: map[string]uint64{"event_id": ev.ID}})
	suite.Require().NoError(err)
	suite.Len(records, 2)
}

func (suite *ResourceServiceTestSuite) TestAttendance_RemovedWithEvent() {
	ev, err := suite.res.Events.Create(ctx, suite.h.rootAdmin, EventInput{Title: "Vigil", Date: "2024-03-01"})
	suite.Require().NoError(err)
	count := 12
	_, err = suite.res.Attendance.Create(ctx, suite.h.rootAdmin, AttendanceInput{EventID: ev.ID, MemberCount: &count, Date: "2024-03-01"})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.db.Delete(&models.Event{}, ev.ID).Error)

	records, err := suite.res.Attendance.List(ctx, suite.h.rootAdmin, ListInput{})
	suite.Require().NoError(err)
	suite.Empty(records)
}

func (suite *ResourceServiceTestSuite) TestUpdate_ErrorOrdering() {
	project, err := suite.res.Projects.Create(ctx, suite.h.branchBAdmin, ProjectInput{Name: "Roof", Budget: amount("5000")})
	suite.Require().NoError(err)

	_, err = suite.res.Projects.Update(ctx, suite.h.branchCAdmin, 9999, ProjectInput{})
	suite.ErrorIs(err, apierrors.ErrNotFound)

	_, err = suite.res.Projects.Update(ctx, suite.h.branchCAdmin, project.ID, ProjectInput{})
	suite.ErrorIs(err, apierrors.ErrForbidden)

	_, err = suite.res.Projects.Update(ctx, suite.h.otherAdmin, project.ID, ProjectInput{Name: "Roof", Budget: amount("1")})
	suite.ErrorIs(err, apierrors.ErrForbidden)

	_, err = suite.res.Projects.Update(ctx, suite.h.branchBAdmin, project.ID, ProjectInput{})
	suite.ErrorIs(err, apierrors.ErrValidation)

	updated, err := suite.res.Projects.Update(ctx, suite.h.rootAdmin, project.ID, ProjectInput{
		Target: Target{OrganizationID: ptr(suite.h.root.ID)},
		Name:   "New roof",
		Budget: amount("7500.50"),
	})
	suite.Require().NoError(err)
	suite.Equal("New roof", updated.Name)
	suite.True(amount("7500.50").Equal(updated.Budget))
	suite.Equal(suite.h.branchB.ID, updated.OrganizationID)
}

func (suite *ResourceServiceTestSuite) TestUpdate_NotUpdatableKind() {
	_, err := suite.res.Members.Update(ctx, suite.h.rootAdmin, 1, MemberInput{Name: "x"})
	suite.ErrorIs(err, apierrors.ErrForbidden)
}

func (suite *ResourceServiceTestSuite) TestExpense_ProjectReferenceLifecycle() {
	project, err := suite.res.Projects.Create(ctx, suite.h.rootAdmin, ProjectInput{Name: "Hall", Budget: amount("900")})
	suite.Require().NoError(err)

	linked, err := suite.res.Expenses.Create(ctx, suite.h.rootAdmin, ExpenseInput{
		Description: "Bricks", Amount: amount("120"), Date: "2024-04-01", ProjectID: &project.ID,
	})
	suite.Require().NoError(err)

	// Unknown projects are accepted as given.
	dangling, err := suite.res.Expenses.Create(ctx, suite.h.rootAdmin, ExpenseInput{
		Description: "Mystery", Amount: amount("5"), Date: "2024-04-02", ProjectID: ptr(uint64(424242)),
	})
	suite.Require().NoError(err)
	suite.Equal(uint64(424242), *dangling.ProjectID)

	byProject, err := suite.res.Expenses.List(ctx, suite.h.rootAdmin, ListInput{Filters: map[string]uint64{"project_id": project.ID}})
	suite.Require().NoError(err)
	suite.Require().Len(byProject, 1)
	suite.Equal(linked.ID, byProject[0].ID)

	suite.Require().NoError(suite.res.Projects.Delete(ctx, suite.h.rootAdmin, project.ID))

	var reloaded models.Expense
	suite.Require().NoError(suite.db.First(&reloaded, linked.ID).Error)
	suite.Nil(reloaded.ProjectID)
}

func (suite *ResourceServiceTestSuite) TestDelete_ScopedOwnership() {
	expense, err := suite.res.Expenses.Create(ctx, suite.h.branchBAdmin, ExpenseInput{
		Description: "Chairs", Amount: amount("80"), Date: "2024-05-01",
	})
	suite.Require().NoError(err)

	suite.ErrorIs(suite.res.Expenses.Delete(ctx, suite.h.branchCAdmin, expense.ID), apierrors.ErrForbidden)
	suite.ErrorIs(suite.res.Expenses.Delete(ctx, suite.h.branchBAdmin, 9999), apierrors.ErrNotFound)
	suite.NoError(suite.res.Expenses.Delete(ctx, suite.h.rootAdmin, expense.ID))
	suite.ErrorIs(suite.res.Expenses.Delete(ctx, suite.h.rootAdmin, expense.ID), apierrors.ErrNotFound)
}

func (suite *ResourceServiceTestSuite) TestDonationDelete_BranchAdminForbidden() {
	donation, err := suite.res.Donations.Create(ctx, suite.h.branchBAdmin, DonationInput{
		Amount: amount("25"), Date: "2024-06-01", Type: string(models.DonationTypeTithe),
	})
	suite.Require().NoError(err)
	suite.Equal(suite.h.branchB.ID, donation.OrganizationID)

	err = suite.res.Donations.Delete(ctx, suite.h.branchBAdmin, donation.ID)
	suite.ErrorIs(err, apierrors.ErrForbidden)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Donation{}).Count(&count).Error)
	suite.Equal(int64(1), count)

	suite.ErrorIs(suite.res.Donations.Delete(ctx, suite.h.rootAdmin, 9999), apierrors.ErrNotFound)
	suite.NoError(suite.res.Donations.Delete(ctx, suite.h.rootAdmin, donation.ID))
}

func (suite *ResourceServiceTestSuite) TestDelete_DisabledKind() {
	m := suite.addMember("Ann", suite.h.root.ID)
	suite.ErrorIs(suite.res.Members.Delete(ctx, suite.h.rootAdmin, m.ID), apierrors.ErrForbidden)
}

func TestResourceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ResourceServiceTestSuite))
}
