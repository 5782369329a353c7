package services

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/church-network-api/internal/access"
	apierrors "github.com/yukikurage/church-network-api/internal/errors"
	"github.com/yukikurage/church-network-api/internal/models"
	"github.com/yukikurage/church-network-api/internal/repository"
	"github.com/yukikurage/church-network-api/internal/testutil"
	"gorm.io/gorm"
)

type OrganizationServiceTestSuite struct {
	suite.Suite
	db   *gorm.DB
	hook *test.Hook
	orgs *OrganizationService
	auth *AuthService
}

func (suite *OrganizationServiceTestSuite) SetupTest() {
	logger, hook := test.NewNullLogger()
	suite.hook = hook
	suite.db = testutil.NewDB(suite.T())
	suite.orgs = NewOrganizationService(suite.db, logger)
	suite.auth = NewAuthService(suite.db, logger)
}

func (suite *OrganizationServiceTestSuite) count(model any) int64 {
	var n int64
	suite.Require().NoError(suite.db.Model(model).Count(&n).Error)
	return n
}

func (suite *OrganizationServiceTestSuite) principals() int64 {
	n, err := repository.NewUserRepository(suite.db).Count()
	suite.Require().NoError(err)
	return n
}

func (suite *OrganizationServiceTestSuite) register(name, email string) (*models.User, access.Identity) {
	user, org, err := suite.orgs.RegisterRoot(ctx, RegisterRootInput{Name: name, Email: email, Password: "correct-horse"})
	suite.Require().NoError(err)
	suite.Require().True(org.IsRoot())
	return user, mustIdentity(suite.T(), user.ID, user.Role, user.OrganizationID)
}

func (suite *OrganizationServiceTestSuite) TestRegisterRoot() {
	user, _ := suite.register("Grace Central", "pastor@grace.example")

	suite.Equal(models.RoleRootAdmin, user.Role)
	suite.NotEqual("correct-horse", user.PasswordHash)
	suite.Equal(logrus.InfoLevel, suite.hook.LastEntry().Level)
}

func (suite *OrganizationServiceTestSuite) TestRegisterRoot_DuplicateEmail() {
	suite.register("Grace Central", "pastor@grace.example")

	_, _, err := suite.orgs.RegisterRoot(ctx, RegisterRootInput{Name: "Copycat", Email: "pastor@grace.example", Password: "another-pass"})
	suite.ErrorIs(err, apierrors.ErrConflict)

	suite.Equal(int64(1), suite.principals())
	suite.Equal(int64(1), suite.count(&models.Organization{}))
}

func (suite *OrganizationServiceTestSuite) TestRegisterRoot_Validation() {
	_, _, err := suite.orgs.RegisterRoot(ctx, RegisterRootInput{Name: " ", Email: "not-an-email", Password: "short"})
	var verr *apierrors.ValidationError
	suite.Require().ErrorAs(err, &verr)
	suite.Contains(verr.Fields, "name")
	suite.Contains(verr.Fields, "email")
	suite.Contains(verr.Fields, "password")
	suite.Zero(suite.count(&models.Organization{}))
}

func (suite *OrganizationServiceTestSuite) TestCreateAndListBranches() {
	_, root := suite.register("Grace Central", "pastor@grace.example")

	north, err := suite.orgs.CreateBranch(ctx, root, CreateBranchInput{Name: "Grace North"})
	suite.Require().NoError(err)
	suite.Equal(root.OrganizationID(), *north.ParentID)
	south, err := suite.orgs.CreateBranch(ctx, root, CreateBranchInput{Name: "Grace South"})
	suite.Require().NoError(err)

	branches, err := suite.orgs.ListBranches(ctx, root)
	suite.Require().NoError(err)
	suite.Require().Len(branches, 2)
	suite.Equal(north.ID, branches[0].ID)
	suite.Equal(south.ID, branches[1].ID)

	_, err = suite.orgs.CreateBranch(ctx, root, CreateBranchInput{})
	suite.ErrorIs(err, apierrors.ErrValidation)
}

func (suite *OrganizationServiceTestSuite) TestCreateBranch_MissingParent() {
	ghost := mustIdentity(suite.T(), 1, models.RoleRootAdmin, 9999)

	_, err := suite.orgs.CreateBranch(ctx, ghost, CreateBranchInput{Name: "Nowhere"})
	suite.ErrorIs(err, apierrors.ErrNotFound)
	suite.Zero(suite.count(&models.Organization{}))
}

func (suite *OrganizationServiceTestSuite) TestBranchAdminCannotManageBranches() {
	_, root := suite.register("Grace Central", "pastor@grace.example")
	north, err := suite.orgs.CreateBranch(ctx, root, CreateBranchInput{Name: "Grace North"})
	suite.Require().NoError(err)
	admin := mustIdentity(suite.T(), 99, models.RoleBranchAdmin, north.ID)

	_, err = suite.orgs.CreateBranch(ctx, admin, CreateBranchInput{Name: "Sub"})
	suite.ErrorIs(err, apierrors.ErrForbidden)
	_, err = suite.orgs.ListBranches(ctx, admin)
	suite.ErrorIs(err, apierrors.ErrForbidden)
	_, err = suite.auth.CreateBranchAdmin(ctx, admin, CreateBranchAdminInput{Email: "x@grace.example", Password: "password1", BranchOrgID: north.ID})
	suite.ErrorIs(err, apierrors.ErrForbidden)
}

func (suite *OrganizationServiceTestSuite) TestCreateBranchAdminAndLogin() {
	_, root := suite.register("Grace Central", "pastor@grace.example")
	north, err := suite.orgs.CreateBranch(ctx, root, CreateBranchInput{Name: "Grace North"})
	suite.Require().NoError(err)

	admin, err := suite.auth.CreateBranchAdmin(ctx, root, CreateBranchAdminInput{
		Email: "north@grace.example", Password: "north-pass", BranchOrgID: north.ID,
	})
	suite.Require().NoError(err)
	suite.Equal(models.RoleBranchAdmin, admin.Role)
	suite.Equal(north.ID, admin.OrganizationID)

	user, identity, err := suite.auth.Login(ctx, LoginInput{Email: "north@grace.example", Password: "north-pass"})
	suite.Require().NoError(err)
	suite.Equal(admin.ID, user.ID)
	suite.Equal(admin.ID, identity.UserID())
	suite.Equal(models.RoleBranchAdmin, identity.Role())
	suite.Equal(north.ID, identity.OrganizationID())

	_, _, err = suite.auth.Login(ctx, LoginInput{Email: "north@grace.example", Password: "wrong-pass"})
	suite.ErrorIs(err, apierrors.ErrMissingIdentity)
	_, _, err = suite.auth.Login(ctx, LoginInput{Email: "nobody@grace.example", Password: "north-pass"})
	suite.ErrorIs(err, ErrInvalidCredentials)

	found, err := suite.auth.GetUser(ctx, admin.ID)
	suite.Require().NoError(err)
	suite.Equal("north@grace.example", found.Email)
	_, err = suite.auth.GetUser(ctx, 9999)
	suite.ErrorIs(err, apierrors.ErrNotFound)
}

func (suite *OrganizationServiceTestSuite) TestCreateBranchAdmin_ForeignOrMissingBranch() {
	_, root := suite.register("Grace Central", "pastor@grace.example")
	_, otherRoot := suite.register("Hope Central", "pastor@hope.example")
	hopeBranch, err := suite.orgs.CreateBranch(ctx, otherRoot, CreateBranchInput{Name: "Hope East"})
	suite.Require().NoError(err)

	for _, branchID := range []uint64{hopeBranch.ID, root.OrganizationID(), 9999} {
		_, err := suite.auth.CreateBranchAdmin(ctx, root, CreateBranchAdminInput{
			Email: "new@grace.example", Password: "password1", BranchOrgID: branchID,
		})
		suite.ErrorIs(err, ErrBranchNotFound)
	}
}

func (suite *OrganizationServiceTestSuite) TestCreateBranchAdmin_DuplicateEmail() {
	_, root := suite.register("Grace Central", "pastor@grace.example")
	north, err := suite.orgs.CreateBranch(ctx, root, CreateBranchInput{Name: "Grace North"})
	suite.Require().NoError(err)

	_, err = suite.auth.CreateBranchAdmin(ctx, root, CreateBranchAdminInput{
		Email: "pastor@grace.example", Password: "password1", BranchOrgID: north.ID,
	})
	suite.ErrorIs(err, apierrors.ErrConflict)
	suite.Equal(int64(1), suite.principals())
}

func TestOrganizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationServiceTestSuite))
}
