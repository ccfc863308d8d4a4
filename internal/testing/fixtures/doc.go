// Package fixtures provides test data factories for the job board.
//
// Factories write through the GORM repositories, so they pair with
// testdb.New:
//
//	db := testdb.New(t)
//	f := fixtures.New(db)
//	employer := f.CreateEmployer(t)
//	job := f.CreateJob(t, employer, fixtures.WithSalary(90000, 120000))
//
// Usernames get a random suffix so fixtures never collide. Every fixture
// user's password is DefaultPassword.
package fixtures
