package service

import (
	"regexp"

	"github.com/sirupsen/logrus"

	appErrors "github.com/savannahlabs/orders-backend/internal/errors"
	"github.com/savannahlabs/orders-backend/internal/model"
	"github.com/savannahlabs/orders-backend/internal/repository"
)

// Country-code-prefixed, up to 15 digits.
var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type CustomerService struct {
	CustomerRepo repository.CustomerRepositoryInterface
	Log          *logrus.Logger
}

// CustomerInput carries the writable customer fields. Nil means the field was
// absent from the request, which matters for PATCH.
type CustomerInput struct {
	Name        *string
	PhoneNumber *string
	Email       *string
	CustomerID  *string
	Code        *string
}

func validateCustomerFields(c *model.Customer, ve *appErrors.ValidationError) {
	if c.Name == "" {
		ve.Add("name", "This field is required.")
	}
	if c.PhoneNumber == "" {
		ve.Add("phone_number", "This field is required.")
	} else if !phonePattern.MatchString(c.PhoneNumber) {
		ve.Add("phone_number", "Phone number must include the country code e.g +254 for Kenya. Up to 15 digits allowed.")
	}
	if c.Email == "" {
		ve.Add("email", "This field is required.")
	} else if !emailPattern.MatchString(c.Email) {
		ve.Add("email", "Enter a valid email address.")
	}
	if c.CustomerID == "" {
		ve.Add("customer_id", "This field is required.")
	}
	if c.Code == "" {
		ve.Add("code", "This field is required.")
	}
}

func (s *CustomerService) Create(in CustomerInput) (*model.Customer, error) {
	c := &model.Customer{}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.PhoneNumber != nil {
		c.PhoneNumber = *in.PhoneNumber
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.CustomerID != nil {
		c.CustomerID = *in.CustomerID
	}
	if in.Code != nil {
		c.Code = *in.Code
	}

	ve := &appErrors.ValidationError{}
	validateCustomerFields(c, ve)

	if c.Code != "" {
		exists, err := s.CustomerRepo.CodeExists(c.Code)
		if err != nil {
			return nil, err
		}
		if exists {
			ve.Add("code", "Code already exists")
		}
	}

	if !ve.Empty() {
		return nil, ve
	}

	if err := s.CustomerRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) Get(id int) (*model.Customer, error) {
	return s.CustomerRepo.GetByID(id)
}

// List fetches customers with pagination
func (s *CustomerService) List(page, pageSize int) ([]model.Customer, map[string]int, error) {
	page, pageSize = clampPage(page, pageSize)
	offset := (page - 1) * pageSize

	customers, total, err := s.CustomerRepo.List(offset, pageSize)
	if err != nil {
		return nil, nil, err
	}

	return customers, paginationBlock(page, pageSize, total), nil
}

// Update applies the input to the stored customer. With partial set, absent
// fields keep their current values (PATCH); otherwise every field is
// required (PUT).
func (s *CustomerService) Update(id int, in CustomerInput, partial bool) (*model.Customer, error) {
	c, err := s.CustomerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	codeChanged := false
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.PhoneNumber != nil {
		c.PhoneNumber = *in.PhoneNumber
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.CustomerID != nil {
		c.CustomerID = *in.CustomerID
	}
	if in.Code != nil && *in.Code != c.Code {
		c.Code = *in.Code
		codeChanged = true
	}

	ve := &appErrors.ValidationError{}
	if !partial {
		if in.Name == nil {
			ve.Add("name", "This field is required.")
		}
		if in.PhoneNumber == nil {
			ve.Add("phone_number", "This field is required.")
		}
		if in.Email == nil {
			ve.Add("email", "This field is required.")
		}
		if in.CustomerID == nil {
			ve.Add("customer_id", "This field is required.")
		}
		if in.Code == nil {
			ve.Add("code", "This field is required.")
		}
	}
	if ve.Empty() {
		validateCustomerFields(c, ve)
	}

	if codeChanged && c.Code != "" {
		exists, err := s.CustomerRepo.CodeExists(c.Code)
		if err != nil {
			return nil, err
		}
		if exists {
			ve.Add("code", "Code already exists")
		}
	}

	if !ve.Empty() {
		return nil, ve
	}

	if err := s.CustomerRepo.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) Delete(id int) error {
	return s.CustomerRepo.Delete(id)
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func paginationBlock(page, pageSize, total int) map[string]int {
	totalPages := (total + pageSize - 1) / pageSize
	return map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
}
