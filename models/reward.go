package models

import (
	"database/sql"
	"fmt"
	"strconv"
)

// RewardStore manages the reward catalog, purchases and equip state.
// Purchases that cannot proceed for business reasons (already owned, not
// enough points) come back as unsuccessful results, not errors.
type RewardStore struct {
	db    *sql.DB
	stats *UserStatsStore
}

func NewRewardStore(db *sql.DB) *RewardStore {
	return &RewardStore{db: db, stats: NewUserStatsStore(db)}
}

// RewardResult is the soft-failure envelope for purchase and equip calls.
type RewardResult struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Reward  *Reward `json:"reward,omitempty"`
}

// PurchaseReward debits the cost through the ledger and records ownership in
// one transaction. Insufficient points or prior ownership leave the store
// untouched and report a message instead of failing hard.
func (s *RewardStore) PurchaseReward(userID, rewardID int) (*RewardResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var r Reward
	err = tx.QueryRow(`
		SELECT id, name, type, points_cost, is_premium FROM rewards WHERE id = $1
	`, rewardID).Scan(&r.ID, &r.Name, &r.RewardType, &r.PointsCost, &r.IsPremium)
	if err == sql.ErrNoRows {
		return &RewardResult{Success: false, Message: "Reward not found"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reward: %w", err)
	}

	var owned bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM user_rewards WHERE user_id = $1 AND reward_id = $2)
	`, userID, rewardID).Scan(&owned)
	if err != nil {
		return nil, fmt.Errorf("failed to check ownership: %w", err)
	}
	if owned {
		return &RewardResult{Success: false, Message: "Reward already owned"}, nil
	}

	var totalPoints int
	err = tx.QueryRow(`
		SELECT total_points FROM user_points WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&totalPoints)
	if err == sql.ErrNoRows {
		totalPoints = 0
	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch points balance: %w", err)
	}
	if totalPoints < r.PointsCost {
		return &RewardResult{Success: false, Message: "Not enough points to purchase this reward"}, nil
	}

	if err := awardPointsTx(tx, userID, -r.PointsCost, "reward_purchase", strconv.Itoa(r.ID)); err != nil {
		return nil, err
	}
	if err := incrementStatTx(tx, userID, "points_spent", r.PointsCost); err != nil {
		return nil, err
	}
	_, err = tx.Exec(`
		INSERT INTO user_rewards (user_id, reward_id) VALUES ($1, $2)
	`, userID, rewardID)
	if err != nil {
		return nil, fmt.Errorf("failed to record ownership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	// The spend counter moved inside the transaction; spending achievements
	// are evaluated once the purchase is durable.
	if _, err := s.stats.SweepStat(userID, "points_spent"); err != nil {
		return nil, err
	}
	return &RewardResult{Success: true, Message: "Reward purchased", Reward: &r}, nil
}

// ToggleEquipStatus equips or un-equips an owned reward. Equipping first
// un-equips any other owned reward of the same type, so at most one reward
// per type is equipped per user.
func (s *RewardStore) ToggleEquipStatus(userID, rewardID int, equip bool) (*RewardResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var rewardType string
	err = tx.QueryRow(`
		SELECT r.type
		FROM user_rewards ur
		JOIN rewards r ON r.id = ur.reward_id
		WHERE ur.user_id = $1 AND ur.reward_id = $2
	`, userID, rewardID).Scan(&rewardType)
	if err == sql.ErrNoRows {
		return &RewardResult{Success: false, Message: "Reward not owned"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check ownership: %w", err)
	}

	if equip {
		_, err = tx.Exec(`
			UPDATE user_rewards ur
			SET is_equipped = false
			FROM rewards r
			WHERE r.id = ur.reward_id AND ur.user_id = $1 AND r.type = $2
		`, userID, rewardType)
		if err != nil {
			return nil, fmt.Errorf("failed to unequip same-type rewards: %w", err)
		}
	}
	_, err = tx.Exec(`
		UPDATE user_rewards SET is_equipped = $1
		WHERE user_id = $2 AND reward_id = $3
	`, equip, userID, rewardID)
	if err != nil {
		return nil, fmt.Errorf("failed to update equip status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &RewardResult{Success: true, Message: "Equip status updated"}, nil
}

// GetRewards returns the full catalog.
func (s *RewardStore) GetRewards() ([]Reward, error) {
	rows, err := s.db.Query(`
		SELECT id, name, type, points_cost, is_premium FROM rewards ORDER BY points_cost ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rewards := []Reward{}
	for rows.Next() {
		var r Reward
		if err := rows.Scan(&r.ID, &r.Name, &r.RewardType, &r.PointsCost, &r.IsPremium); err != nil {
			return nil, err
		}
		rewards = append(rewards, r)
	}
	return rewards, rows.Err()
}

// GetUserRewards returns the user's owned rewards with equip state.
func (s *RewardStore) GetUserRewards(userID int) ([]UserReward, error) {
	rows, err := s.db.Query(`
		SELECT ur.user_id, ur.reward_id, r.name, r.type, ur.acquired_at, ur.is_equipped
		FROM user_rewards ur
		JOIN rewards r ON r.id = ur.reward_id
		WHERE ur.user_id = $1
		ORDER BY ur.acquired_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owned := []UserReward{}
	for rows.Next() {
		var ur UserReward
		if err := rows.Scan(&ur.UserID, &ur.RewardID, &ur.Name, &ur.RewardType, &ur.AcquiredAt, &ur.IsEquipped); err != nil {
			return nil, err
		}
		owned = append(owned, ur)
	}
	return owned, rows.Err()
}

var defaultRewards = []Reward{
	{Name: "Classic Avatar", RewardType: "avatar", PointsCost: 0},
	{Name: "Golden Piggy Avatar", RewardType: "avatar", PointsCost: 500},
	{Name: "Bull Market Avatar", RewardType: "avatar", PointsCost: 750, IsPremium: true},
	{Name: "Dark Mode Theme", RewardType: "theme", PointsCost: 300},
	{Name: "Ocean Theme", RewardType: "theme", PointsCost: 450},
	{Name: "Mint Theme", RewardType: "theme", PointsCost: 600, IsPremium: true},
	{Name: "Saver Badge", RewardType: "badge", PointsCost: 200},
	{Name: "Investor Badge", RewardType: "badge", PointsCost: 1000, IsPremium: true},
}

// InitDefaultRewards seeds the catalog, skipping names already present.
func (s *RewardStore) InitDefaultRewards() error {
	for _, r := range defaultRewards {
		_, err := s.db.Exec(`
			INSERT INTO rewards (name, type, points_cost, is_premium)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING
		`, r.Name, r.RewardType, r.PointsCost, r.IsPremium)
		if err != nil {
			return fmt.Errorf("failed to seed reward %q: %w", r.Name, err)
		}
	}
	return nil
}
