package models

import (
	"strings"
	"time"
)

// Account roles. Team members carry RoleUser and point at their owner;
// accounts without a subscription stay at RoleNone.
const (
	RoleNone  = "none"
	RoleUser  = "user"
	RoleOwner = "owner"
)

// Project types.
const (
	ProjectTypeFile = "file"
	ProjectTypeURL  = "url"
)

// AccountDetails holds the owner's plan limits and usage counters. Only
// meaningful on accounts with RoleOwner; team members read them through
// their owner.
type AccountDetails struct {
	AllowedCredits     float64  `json:"allowedCredits"`
	UsedCredits        float64  `json:"usedCredits"`
	AllowedTeamMembers int      `json:"allowedTeamMembers"`
	AllowedAssistants  int      `json:"allowedAssistants"`
	TeamMembers        []string `json:"teamMembers"`
}

// Project is a single ingested document or URL set, embedded in a collection.
// Projects are append-only; ID is the index the project had at creation time.
type Project struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	Model         string    `json:"model"`
	Language      string    `json:"language"`
	DataAnomiyzer bool      `json:"dataAnomiyzer"`
	SourceChatGpt bool      `json:"sourceChatGpt"`
	BestGuess     float64   `json:"bestGuess"`
	URLs          []string  `json:"urls"`
	File          string    `json:"file"`
	Date          time.Time `json:"date"`
}

// Collection is a named, access-controlled grouping of projects. It lives
// embedded in the owning account's document; read/write access sets hold
// account ids as strings.
type Collection struct {
	Name        string    `json:"name"`
	ReadAccess  []string  `json:"readAccess"`
	WriteAccess []string  `json:"writeAccess"`
	NoOfPages   int       `json:"noOfPages"`
	Projects    []Project `json:"projects"`
}

// HasReadAccess reports whether the account id is in the read set.
func (c *Collection) HasReadAccess(accountID string) bool {
	for _, id := range c.ReadAccess {
		if id == accountID {
			return true
		}
	}
	return false
}

// HasWriteAccess reports whether the account id is in the write set.
func (c *Collection) HasWriteAccess(accountID string) bool {
	for _, id := range c.WriteAccess {
		if id == accountID {
			return true
		}
	}
	return false
}

// Account is one user document. The collection/project tree and the account
// details are persisted as JSON blobs, mirroring the embedded-document model
// the system was designed around; every mutation rewrites the whole column.
type Account struct {
	Base
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	PasswordSalt string `gorm:"not null" json:"-"`
	Name         string `json:"name"`
	BusinessName string `json:"business_name"`
	Phone        string `json:"phone"`

	Role    string `gorm:"default:'none';index" json:"role"`
	OwnerID string `gorm:"index" json:"owner_id"`

	AccountDetails AccountDetails `gorm:"serializer:json" json:"account_details"`
	Collections    []Collection   `gorm:"serializer:json" json:"collections"`

	StripeCustomerID     string `gorm:"index" json:"-"`
	StripeSubscriptionID string `json:"-"`

	ProductID        string `gorm:"index" json:"product_id"`
	FreeSubscription bool   `gorm:"default:false" json:"free_subscription"`
	ProfileImage     string `gorm:"default:''" json:"profile_image"`
}

func (Account) TableName() string {
	return "users"
}

// CollectionByName returns the collection with the exact name, or nil.
func (a *Account) CollectionByName(name string) *Collection {
	for i := range a.Collections {
		if a.Collections[i].Name == name {
			return &a.Collections[i]
		}
	}
	return nil
}

// HasCollectionNamed reports whether a collection with the given name exists,
// compared case-insensitively.
func (a *Account) HasCollectionNamed(name string) bool {
	lower := strings.ToLower(name)
	for i := range a.Collections {
		if strings.ToLower(a.Collections[i].Name) == lower {
			return true
		}
	}
	return false
}
