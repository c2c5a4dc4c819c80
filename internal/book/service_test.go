package book

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/image"
)

func newTestFile() *image.File {
	return &image.File{
		Name:    "cover.jpg",
		Size:    4,
		Content: strings.NewReader("data"),
	}
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	mockImages := NewMockImages(ctrl)
	service := NewService(mockRepo, mockImages)

	draft := Book{Title: "Test Book", Author: "Author", Pages: 100, Price: 10.0}

	t.Run("no file leaves image null", func(t *testing.T) {
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, b *Book) error {
				b.ID = 1
				return nil
			})

		saved, err := service.Create(context.Background(), draft, nil)

		require.NoError(t, err)
		assert.Equal(t, int64(1), saved.ID)
		assert.Nil(t, saved.Image)
	})

	t.Run("with file uploads exactly once", func(t *testing.T) {
		file := newTestFile()
		img := image.Image{ID: 7, Name: "cover.jpg", URL: "http://example.com/cover.jpg", PublicID: "cover_id"}
		mockImages.EXPECT().Upload(gomock.Any(), file).Return(img, nil)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, b *Book) error {
				b.ID = 2
				return nil
			})

		saved, err := service.Create(context.Background(), draft, file)

		require.NoError(t, err)
		require.NotNil(t, saved.Image)
		assert.Equal(t, img, *saved.Image)
	})

	t.Run("missing title rejected before any call", func(t *testing.T) {
		_, err := service.Create(context.Background(), Book{Author: "Author"}, nil)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("missing author rejected before any call", func(t *testing.T) {
		_, err := service.Create(context.Background(), Book{Title: "Test Book"}, nil)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("upload failure leaves no partial state", func(t *testing.T) {
		file := newTestFile()
		mockImages.EXPECT().Upload(gomock.Any(), file).Return(image.Image{}, image.ErrUpload)

		_, err := service.Create(context.Background(), draft, file)

		assert.ErrorIs(t, err, image.ErrUpload)
	})

	t.Run("save failure cleans up the uploaded asset", func(t *testing.T) {
		file := newTestFile()
		img := image.Image{ID: 7, PublicID: "cover_id"}
		gomock.InOrder(
			mockImages.EXPECT().Upload(gomock.Any(), file).Return(img, nil),
			mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down")),
			mockImages.EXPECT().Delete(gomock.Any(), img).Return(nil),
		)

		_, err := service.Create(context.Background(), draft, file)

		assert.Error(t, err)
	})
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	mockImages := NewMockImages(ctrl)
	service := NewService(mockRepo, mockImages)

	valid := Book{ID: 1, Title: "Test Book", Author: "Author", Pages: 100, Price: 10.0}

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		updated, err := service.Update(context.Background(), valid)

		require.NoError(t, err)
		assert.Equal(t, int64(1), updated.ID)
	})

	for name, b := range map[string]Book{
		"missing id":     {Title: "T", Author: "A", Pages: 1, Price: 1},
		"missing title":  {ID: 1, Author: "A", Pages: 1, Price: 1},
		"missing author": {ID: 1, Title: "T", Pages: 1, Price: 1},
		"negative pages": {ID: 1, Title: "T", Author: "A", Pages: -1, Price: 1},
		"negative price": {ID: 1, Title: "T", Author: "A", Pages: 1, Price: -0.5},
	} {
		t.Run(name+" rejected without persistence", func(t *testing.T) {
			_, err := service.Update(context.Background(), b)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestService_ReplaceImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	mockImages := NewMockImages(ctrl)
	service := NewService(mockRepo, mockImages)

	oldImg := image.Image{ID: 3, Name: "old.jpg", URL: "http://example.com/old.jpg", PublicID: "old_id"}
	newImg := image.Image{ID: 4, Name: "new.jpg", URL: "http://example.com/new.jpg", PublicID: "new_id"}

	t.Run("existing image deleted after new upload succeeds", func(t *testing.T) {
		b := Book{ID: 1, Title: "Test Book", Author: "Author", Image: &oldImg}
		file := newTestFile()
		gomock.InOrder(
			mockImages.EXPECT().Upload(gomock.Any(), file).Return(newImg, nil),
			mockImages.EXPECT().Delete(gomock.Any(), oldImg).Return(nil),
			mockRepo.EXPECT().SetImage(gomock.Any(), int64(1), &newImg.ID).Return(nil),
		)

		updated, err := service.ReplaceImage(context.Background(), file, b)

		require.NoError(t, err)
		require.NotNil(t, updated.Image)
		assert.Equal(t, newImg, *updated.Image)
	})

	t.Run("no previous image never calls delete", func(t *testing.T) {
		b := Book{ID: 1, Title: "Test Book", Author: "Author"}
		file := newTestFile()
		mockImages.EXPECT().Upload(gomock.Any(), file).Return(newImg, nil)
		mockRepo.EXPECT().SetImage(gomock.Any(), int64(1), &newImg.ID).Return(nil)

		updated, err := service.ReplaceImage(context.Background(), file, b)

		require.NoError(t, err)
		assert.Equal(t, newImg, *updated.Image)
	})

	t.Run("upload failure leaves old image intact", func(t *testing.T) {
		b := Book{ID: 1, Image: &oldImg}
		file := newTestFile()
		mockImages.EXPECT().Upload(gomock.Any(), file).Return(image.Image{}, image.ErrUpload)

		_, err := service.ReplaceImage(context.Background(), file, b)

		assert.ErrorIs(t, err, image.ErrUpload)
	})

	t.Run("failed delete of old image does not block attachment", func(t *testing.T) {
		b := Book{ID: 1, Image: &oldImg}
		file := newTestFile()
		gomock.InOrder(
			mockImages.EXPECT().Upload(gomock.Any(), file).Return(newImg, nil),
			mockImages.EXPECT().Delete(gomock.Any(), oldImg).Return(image.ErrDelete),
			mockRepo.EXPECT().SetImage(gomock.Any(), int64(1), &newImg.ID).Return(nil),
		)

		updated, err := service.ReplaceImage(context.Background(), file, b)

		require.NoError(t, err)
		assert.Equal(t, newImg, *updated.Image)
	})

	t.Run("save failure cleans up the new asset", func(t *testing.T) {
		b := Book{ID: 1}
		file := newTestFile()
		gomock.InOrder(
			mockImages.EXPECT().Upload(gomock.Any(), file).Return(newImg, nil),
			mockRepo.EXPECT().SetImage(gomock.Any(), int64(1), &newImg.ID).Return(errors.New("db down")),
			mockImages.EXPECT().Delete(gomock.Any(), newImg).Return(nil),
		)

		_, err := service.ReplaceImage(context.Background(), file, b)

		assert.Error(t, err)
	})
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	mockImages := NewMockImages(ctrl)
	service := NewService(mockRepo, mockImages)

	img := image.Image{ID: 3, PublicID: "old_id"}

	t.Run("with image removes asset before book row", func(t *testing.T) {
		gomock.InOrder(
			mockImages.EXPECT().Delete(gomock.Any(), img).Return(nil),
			mockRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil),
		)

		err := service.Delete(context.Background(), Book{ID: 1, Image: &img})

		assert.NoError(t, err)
	})

	t.Run("without image never touches the image service", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)

		err := service.Delete(context.Background(), Book{ID: 1})

		assert.NoError(t, err)
	})

	t.Run("image delete failure keeps the book", func(t *testing.T) {
		mockImages.EXPECT().Delete(gomock.Any(), img).Return(image.ErrDelete)

		err := service.Delete(context.Background(), Book{ID: 1, Image: &img})

		assert.ErrorIs(t, err, image.ErrDelete)
	})
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	mockImages := NewMockImages(ctrl)
	service := NewService(mockRepo, mockImages)

	t.Run("valid query passes through", func(t *testing.T) {
		q := Query{Page: 0, Size: 10, SortBy: "title", Search: "dune"}
		mockRepo.EXPECT().List(gomock.Any(), q).Return([]Summary{{ID: 1, Title: "Dune"}}, 1, nil)

		items, total, err := service.List(context.Background(), q)

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, items, 1)
	})

	t.Run("negative page rejected", func(t *testing.T) {
		_, _, err := service.List(context.Background(), Query{Page: -1, Size: 10, SortBy: "title"})
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("unknown sort field rejected", func(t *testing.T) {
		_, _, err := service.List(context.Background(), Query{Size: 10, SortBy: "isbn"})
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestParseDirection(t *testing.T) {
	for _, tc := range []struct {
		in   string
		desc bool
	}{
		{"ASC", false},
		{"asc", false},
		{"", false},
		{"DESC", true},
		{"desc", true},
	} {
		desc, err := ParseDirection(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.desc, desc, tc.in)
	}

	_, err := ParseDirection("sideways")
	assert.ErrorIs(t, err, ErrInvalid)
}
